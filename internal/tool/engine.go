package tool

import (
	"math"

	"PixelBoard/internal/fill"
	"PixelBoard/internal/geom"
	"PixelBoard/internal/palette"
)

// Grid is the part of the canvas the engine reads and writes.
type Grid interface {
	SetPixel(x, y int, c palette.Color)
	EffectiveColor(x, y int) palette.Color
	TilePixel(x, y int) palette.Color
}

// View is the part of the viewport the engine needs.
type View interface {
	Offset() geom.Point
	PixelSize() int
	MoveViewport(d geom.Point)
}

// Phase is the pointer state.
type Phase int

const (
	Idle Phase = iota
	Panning
	Drawing
)

func (p Phase) String() string {
	switch p {
	case Panning:
		return "panning"
	case Drawing:
		return "drawing"
	}
	return "idle"
}

// ScreenPoint is a pointer position in screen pixels.
type ScreenPoint struct {
	X, Y float32
}

// Engine dispatches pointer events to the active tool. It only owns the
// pointer phase, the last pointer position and the hover set; everything
// else is injected. Engine is not safe for concurrent use: drive it from
// the UI event loop.
type Engine struct {
	grid Grid
	view View
	sel  *Selection

	phase Phase
	last  ScreenPoint
	hover []geom.Point
}

// NewEngine wires an engine to its collaborators.
func NewEngine(grid Grid, view View, sel *Selection) *Engine {
	return &Engine{grid: grid, view: view, sel: sel}
}

func (e *Engine) Phase() Phase {
	return e.phase
}

// Hover returns the current hover set in visual coordinates.
func (e *Engine) Hover() []geom.Point {
	out := make([]geom.Point, len(e.hover))
	copy(out, e.hover)
	return out
}

// Selection returns the injected selection.
func (e *Engine) Selection() *Selection {
	return e.sel
}

// Commit applies the active tool at visual cell v.
func (e *Engine) Commit(v geom.Point) {
	t := geom.VisualToTheoretical(v, e.view.Offset())

	switch e.sel.Tool() {
	case Pencil:
		e.grid.SetPixel(t.X, t.Y, e.sel.ColorAt(t.X, t.Y))

	case Brush:
		for _, d := range e.sel.BrushPattern() {
			x, y := t.X+d.DX, t.Y+d.DY
			e.grid.SetPixel(x, y, e.sel.ColorAt(x, y))
		}

	case Eraser:
		for _, d := range e.sel.BrushPattern() {
			e.grid.SetPixel(t.X+d.DX, t.Y+d.DY, palette.None)
		}

	case Stamp:
		for _, px := range e.sel.StampPattern() {
			e.grid.SetPixel(t.X+px.X, t.Y+px.Y, palette.FromTriple(px.RGB))
		}

	case PaintBucket:
		for _, p := range fill.ContiguousTransparent(t, e.grid.EffectiveColor) {
			e.grid.SetPixel(p.X, p.Y, e.sel.ColorAt(p.X, p.Y))
		}

	case Pipette:
		c := e.grid.EffectiveColor(t.X, t.Y)
		if id, ok := palette.IDOf(c); ok {
			e.sel.SetColor(id)
		}

	case Darken:
		c := e.grid.TilePixel(t.X, t.Y)
		if darker, ok := palette.Darker(c); ok {
			e.grid.SetPixel(t.X, t.Y, darker)
		}
	}
}

// UpdateHover recomputes the hover set for a pointer over visual cell v.
func (e *Engine) UpdateHover(v geom.Point) {
	e.hover = e.hoverAt(v)
}

func (e *Engine) hoverAt(v geom.Point) []geom.Point {
	switch e.sel.Tool() {
	case Pencil, Pipette, Darken:
		return []geom.Point{v}

	case Brush, Eraser:
		pattern := e.sel.BrushPattern()
		out := make([]geom.Point, len(pattern))
		for i, d := range pattern {
			out[i] = geom.Pt(v.X+d.DX, v.Y+d.DY)
		}
		return out

	case Stamp:
		pattern := e.sel.StampPattern()
		out := make([]geom.Point, len(pattern))
		for i, px := range pattern {
			out[i] = geom.Pt(v.X+px.X, v.Y+px.Y)
		}
		return out

	case PaintBucket:
		offset := e.view.Offset()
		cells := fill.ContiguousTransparent(geom.VisualToTheoretical(v, offset), e.grid.EffectiveColor)
		for i, p := range cells {
			cells[i] = geom.TheoreticalToVisual(p, offset)
		}
		return cells
	}
	return nil
}

// ClearHover empties the hover set.
func (e *Engine) ClearHover() {
	e.hover = nil
}

// PointerDown starts a gesture at screen position s over visual cell v.
func (e *Engine) PointerDown(s ScreenPoint, v geom.Point) {
	e.last = s
	switch tool := e.sel.Tool(); {
	case tool == Move:
		e.phase = Panning
		e.hover = nil
	case tool == Pipette || tool == PaintBucket:
		e.phase = Idle
		e.Commit(v)
		e.UpdateHover(v)
	case tool.Valid():
		e.phase = Drawing
		e.Commit(v)
		e.UpdateHover(v)
	}
}

// PointerMove handles motion to screen position s over visual cell v.
func (e *Engine) PointerMove(s ScreenPoint, v geom.Point) {
	switch e.phase {
	case Panning:
		e.pan(s)
	case Drawing:
		e.Commit(v)
		e.UpdateHover(v)
	default:
		e.UpdateHover(v)
	}
}

// pan moves the viewport by whole cells and keeps the sub-cell remainder
// for the next event.
func (e *Engine) pan(s ScreenPoint) {
	size := float32(e.view.PixelSize())
	if size <= 0 {
		return
	}
	dx := int(math.Floor(float64((s.X - e.last.X) / size)))
	dy := int(math.Floor(float64((s.Y - e.last.Y) / size)))
	if dx == 0 && dy == 0 {
		return
	}
	e.view.MoveViewport(geom.Pt(dx, dy))
	e.last.X += float32(dx) * size
	e.last.Y += float32(dy) * size
}

// PointerUp ends the gesture.
func (e *Engine) PointerUp() {
	e.phase = Idle
}

// PointerLeave ends the gesture and clears the hover set.
func (e *Engine) PointerLeave() {
	e.phase = Idle
	e.hover = nil
}
