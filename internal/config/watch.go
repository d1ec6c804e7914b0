package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config at path whenever it is written and passes
// each successfully parsed version to apply. The parent directory is
// watched so editors that replace the file by rename are handled. Watch
// blocks until ctx is done.
func Watch(ctx context.Context, path string, apply func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			cfg, err := LoadFile(abs)
			if err != nil {
				log.Printf("[CONFIG] Reload failed, keeping previous settings: %v", err)
				continue
			}
			if err := cfg.Validate(); err != nil {
				log.Printf("[CONFIG] Reloaded config has problems: %v", err)
			}
			log.Printf("[CONFIG] Reloaded %s", abs)
			apply(cfg)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("[CONFIG] Watcher error: %v", err)
		}
	}
}
