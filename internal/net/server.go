package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/netutil"
	"golang.org/x/sync/errgroup"
)

// ServerConfig describes where the bridge listens.
type ServerConfig struct {
	Port     int
	Path     string
	MaxPeers int
}

// Server serves a bridge over HTTP.
type Server struct {
	cfg      ServerConfig
	bridge   *Bridge
	listener net.Listener
	http     *http.Server
}

// Listen binds the bridge port. Port 0 picks a free port.
func Listen(cfg ServerConfig, bridge *Bridge) (*Server, error) {
	if cfg.Path == "" {
		cfg.Path = "/bridge"
	}
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen on port %d: %w", cfg.Port, err)
	}
	if cfg.MaxPeers > 0 {
		ln = netutil.LimitListener(ln, cfg.MaxPeers)
	}

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, bridge)

	return &Server{
		cfg:      cfg,
		bridge:   bridge,
		listener: ln,
		http: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// Port returns the bound port.
func (s *Server) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// URL returns the websocket address peers on host should dial.
func (s *Server) URL(host string) string {
	return fmt.Sprintf("ws://%s:%d%s", host, s.Port(), s.cfg.Path)
}

// Serve runs until ctx is cancelled, then shuts the server down.
func (s *Server) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("[BRIDGE] Listening on port %d at %s", s.Port(), s.cfg.Path)
		if err := s.http.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("bridge server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.bridge.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
