package state

import (
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Autosaver writes the user layer to a file a short delay after the
// last user change, so a burst of edits costs one write.
type Autosaver struct {
	canvas  *Canvas
	path    string
	delay   time.Duration
	onSaved func(pixels int)

	enabled atomic.Bool
	mu      sync.Mutex
	timer   *time.Timer
	dirty   bool
}

// NewAutosaver creates an enabled autosaver. onSaved may be nil.
func NewAutosaver(c *Canvas, path string, delay time.Duration, onSaved func(pixels int)) *Autosaver {
	a := &Autosaver{canvas: c, path: path, delay: delay, onSaved: onSaved}
	a.enabled.Store(true)
	return a
}

// SetEnabled turns autosaving on or off. Pending changes stay pending.
func (a *Autosaver) SetEnabled(on bool) {
	a.enabled.Store(on)
}

// Observe is a canvas change listener. Tile changes are ignored; they
// are not part of the saved document.
func (a *Autosaver) Observe(ch Change) {
	switch ch.Kind {
	case PixelChanged, UserCleared, UserLoaded:
	default:
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.dirty = true
	if !a.enabled.Load() {
		return
	}
	if a.timer == nil {
		a.timer = time.AfterFunc(a.delay, a.fire)
		return
	}
	a.timer.Reset(a.delay)
}

func (a *Autosaver) fire() {
	if err := a.Flush(); err != nil {
		log.Printf("[STORE] Autosave failed: %v", err)
	}
}

// Flush saves now if anything changed since the last save.
func (a *Autosaver) Flush() error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	dirty := a.dirty
	a.dirty = false
	a.mu.Unlock()

	if !dirty {
		return nil
	}
	if err := SaveFile(a.path, a.canvas); err != nil {
		a.mu.Lock()
		a.dirty = true
		a.mu.Unlock()
		return err
	}
	n := a.canvas.UserLen()
	log.Printf("[STORE] Autosaved %d pixels to %s", n, a.path)
	if a.onSaved != nil {
		a.onSaved(n)
	}
	return nil
}
