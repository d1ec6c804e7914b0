package tool

import (
	"sync"

	"PixelBoard/internal/brush"
	"PixelBoard/internal/palette"
)

// FillMode selects what pencil, brush and bucket paint with.
type FillMode int

const (
	FillColor FillMode = iota
	FillTexture
)

func (m FillMode) String() string {
	if m == FillTexture {
		return "texture"
	}
	return "color"
}

// Selection holds the user's current choices. It is safe for concurrent
// use; the bridge changes it from its own goroutine.
type Selection struct {
	mu            sync.RWMutex
	tool          Tool
	mode          FillMode
	colorID       int
	textureID     int
	brushDiameter int
	stampID       int

	brushPattern []brush.Offset
	stampPattern []palette.StampPixel

	listeners []func()
}

// NewSelection returns the startup selection: pencil, black, the
// smallest brush and the first stamp.
func NewSelection() *Selection {
	s := &Selection{
		tool:          Pencil,
		mode:          FillColor,
		colorID:       1,
		brushDiameter: brush.DefaultDiameter,
	}
	s.brushPattern = brush.CirclePattern(s.brushDiameter)
	s.stampPattern = brush.StampPattern(s.stampID)
	return s
}

// OnChange registers fn to run after every selection change.
func (s *Selection) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Selection) update(fn func()) {
	s.mu.Lock()
	fn()
	listeners := s.listeners
	s.mu.Unlock()
	for _, l := range listeners {
		l()
	}
}

func (s *Selection) Tool() Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

func (s *Selection) SetTool(t Tool) {
	s.update(func() { s.tool = t })
}

func (s *Selection) FillMode() FillMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *Selection) ColorID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colorID
}

// SetColor selects catalog colour id and switches to colour fill.
func (s *Selection) SetColor(id int) {
	s.update(func() {
		s.colorID = id
		s.mode = FillColor
	})
}

func (s *Selection) TextureID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textureID
}

// SetTexture selects texture id and switches to texture fill.
func (s *Selection) SetTexture(id int) {
	s.update(func() {
		s.textureID = id
		s.mode = FillTexture
	})
}

func (s *Selection) BrushDiameter() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brushDiameter
}

// SetBrushDiameter changes the brush and rebuilds its pattern.
func (s *Selection) SetBrushDiameter(d int) {
	pattern := brush.CirclePattern(d)
	s.update(func() {
		s.brushDiameter = d
		s.brushPattern = pattern
	})
}

// BrushPattern returns the cached pattern for the current diameter.
// Callers must not modify it.
func (s *Selection) BrushPattern() []brush.Offset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.brushPattern
}

func (s *Selection) StampID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stampID
}

func (s *Selection) SetStamp(id int) {
	pattern := brush.StampPattern(id)
	s.update(func() {
		s.stampID = id
		s.stampPattern = pattern
	})
}

// StampPattern returns the cached stamp pixels. Callers must not modify it.
func (s *Selection) StampPattern() []palette.StampPixel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stampPattern
}

// ColorAt resolves the fill colour for cell (x, y). Textures depend on
// the cell; a plain colour does not. The transparent id and unknown ids
// resolve to None.
func (s *Selection) ColorAt(x, y int) palette.Color {
	s.mu.RLock()
	mode, colorID, textureID := s.mode, s.colorID, s.textureID
	s.mu.RUnlock()

	if mode == FillTexture {
		if tex, ok := palette.TextureByID(textureID); ok {
			return tex.Render(x, y)
		}
	}
	c, _ := palette.ByID(colorID)
	return c
}
