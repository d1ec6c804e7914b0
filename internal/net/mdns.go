package net

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the mDNS service the bridge is advertised under.
const ServiceType = "_pixelboard._tcp"

// Advertise publishes the bridge on the local network. The TXT record
// carries the websocket path and the session id.
func Advertise(port int, path, session string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}

	info := []string{"PixelBoard", "path=" + path, "session=" + session}

	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, nil, info)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Host is a discovered bridge.
type Host struct {
	Name string
	Addr string
	Info []string
}

// Browse looks for bridges for the given duration and reports each one
// through found.
func Browse(ctx context.Context, timeout time.Duration, found func(Host)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(Host{Name: e.Name, Addr: net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)), Info: e.InfoFields})
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.QueryContext(ctx, params)
	close(entries)
	<-done
	if err != nil {
		return fmt.Errorf("mDNS browse: %w", err)
	}
	return nil
}
