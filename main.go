package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"PixelBoard/internal/config"
	pbnet "PixelBoard/internal/net"
	"PixelBoard/internal/palette"
	"PixelBoard/internal/state"
	"PixelBoard/internal/tiles"
	"PixelBoard/internal/tool"
	"PixelBoard/internal/ui"
	"PixelBoard/internal/viewport"
)

const autosaveDelay = time.Second

func main() {
	configPath := flag.String("config", "", "path to a TOML or YAML config file")
	port := flag.Int("port", -1, "bridge port, overrides the config file")
	discover := flag.Bool("discover", false, "list editors advertised on the local network and exit")
	printConfig := flag.Bool("print-config", false, "print the effective config and exit")
	flag.Parse()

	cfg, path, err := config.NewLoader(*configPath).Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}
	if path != "" {
		log.Printf("[CONFIG] Using %s", path)
	}
	if *port >= 0 {
		cfg.Bridge.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("[CONFIG] %v", err)
	}

	switch {
	case *printConfig:
		fmt.Print(cfg.String())
	case *discover:
		runDiscover()
	default:
		runHost(cfg, path)
	}
}

func runDiscover() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	found := 0
	err := pbnet.Browse(ctx, 3*time.Second, func(h pbnet.Host) {
		found++
		fmt.Printf("%s\t%s\t%s\n", h.Name, h.Addr, strings.Join(h.Info, " "))
	})
	if err != nil {
		log.Fatalf("[BRIDGE] %v", err)
	}
	if found == 0 {
		fmt.Fprintln(os.Stderr, "no editors found")
	}
}

func runHost(cfg *config.Config, configPath string) {
	log.Println("Starting editor")
	session := state.NewSession()
	canvas := state.NewCanvas()
	if err := state.LoadFile(cfg.Storage.File, canvas); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[STORE] Could not restore %s: %v", cfg.Storage.File, err)
	}

	view := viewport.New()
	sel := tool.NewSelection()
	applyEditor(cfg.Editor, view, sel)

	loader := tiles.NewLoader(canvas, tiles.Options{
		SnapToPalette: cfg.Tiles.SnapToPalette,
		ClearUser:     cfg.Tiles.ClearUserOnTileLoad,
		Timeout:       cfg.Tiles.Timeout.Std(),
	})

	// The bridge needs the editor and the editor reports saves to the
	// bridge, so saves go through this variable.
	var bridge *pbnet.Bridge
	notifySaved := func(n int) {
		if bridge != nil {
			bridge.NotifySaved(n)
		}
	}

	fyneApp := app.New()
	editor := ui.New(fyneApp, ui.Options{
		Title:       "PixelBoard",
		Canvas:      canvas,
		View:        view,
		Selection:   sel,
		Loader:      loader,
		StorageFile: cfg.Storage.File,
		Export:      cfg.Export,
		OnSaved:     notifySaved,
	})
	bridge = pbnet.NewBridge(editor, session)
	canvas.OnChange(bridge.PublishChange)

	saver := state.NewAutosaver(canvas, cfg.Storage.File, autosaveDelay, notifySaved)
	saver.SetEnabled(cfg.Storage.Autosave)
	canvas.OnChange(saver.Observe)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	startBridge(ctx, cfg.Bridge, bridge, editor, session)

	if configPath != "" {
		go func() {
			err := config.Watch(ctx, configPath, func(next *config.Config) {
				saver.SetEnabled(next.Storage.Autosave)
				fyne.Do(func() {
					view.SetPixelSize(next.Editor.PixelSize)
					editor.Board().Refresh()
				})
			})
			if err != nil {
				log.Printf("[CONFIG] %v", err)
			}
		}()
	}

	editor.Run()

	cancel()
	if err := saver.Flush(); err != nil {
		log.Printf("[STORE] Final save failed: %v", err)
	}
}

// startBridge serves the websocket bridge and advertises it. The editor
// keeps working without a bridge if the port cannot be bound.
func startBridge(ctx context.Context, cfg config.Bridge, bridge *pbnet.Bridge, editor *ui.App, session *state.Session) {
	srv, err := pbnet.Listen(pbnet.ServerConfig{Port: cfg.Port, Path: cfg.Path, MaxPeers: cfg.MaxPeers}, bridge)
	if err != nil {
		log.Printf("[BRIDGE] %v; continuing without a bridge", err)
		return
	}
	go func() {
		if err := srv.Serve(ctx); err != nil {
			log.Printf("[BRIDGE] %v", err)
		}
	}()

	hostIP, err := pbnet.GetOutgoingIP()
	if err != nil {
		log.Printf("[BRIDGE] Could not determine local IP: %v", err)
		hostIP = "127.0.0.1"
	}
	shareURL := srv.URL(hostIP)
	log.Printf("[BRIDGE] Share URL: %s", shareURL)
	editor.SetShareURL(shareURL)

	if !cfg.Advertise {
		return
	}
	mdnsServer, err := pbnet.Advertise(srv.Port(), cfg.Path, session.ID())
	if err != nil {
		log.Printf("[BRIDGE] mDNS advertise failed: %v", err)
		return
	}
	log.Printf("[BRIDGE] Advertising %s on port %d", pbnet.ServiceType, srv.Port())
	go func() {
		<-ctx.Done()
		mdnsServer.Shutdown()
	}()
}

// applyEditor copies the startup editor settings into the view and the
// selection. Unusable values keep the built-in defaults.
func applyEditor(cfg config.Editor, view *viewport.Viewport, sel *tool.Selection) {
	view.SetPixelSize(cfg.PixelSize)
	if cfg.BrushSize > 0 {
		sel.SetBrushDiameter(cfg.BrushSize)
	}
	if id, ok := palette.IDOfString(cfg.Color); ok {
		sel.SetColor(id)
	}
	if t, err := tool.Parse(cfg.Tool); err == nil {
		sel.SetTool(t)
	}
}
