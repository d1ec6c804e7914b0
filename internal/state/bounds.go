package state

import (
	"PixelBoard/internal/geom"
	"PixelBoard/internal/palette"
)

// Rect is an inclusive cell rectangle. The zero Rect with Valid unset is
// empty.
type Rect struct {
	Min, Max geom.Point
	Valid    bool
}

// Width in cells; 0 for an empty rect.
func (r Rect) Width() int {
	if !r.Valid {
		return 0
	}
	return r.Max.X - r.Min.X + 1
}

func (r Rect) Height() int {
	if !r.Valid {
		return 0
	}
	return r.Max.Y - r.Min.Y + 1
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p geom.Point) bool {
	return r.Valid &&
		p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Extend grows r to cover p.
func (r Rect) Extend(p geom.Point) Rect {
	if !r.Valid {
		return Rect{Min: p, Max: p, Valid: true}
	}
	if p.X < r.Min.X {
		r.Min.X = p.X
	}
	if p.Y < r.Min.Y {
		r.Min.Y = p.Y
	}
	if p.X > r.Max.X {
		r.Max.X = p.X
	}
	if p.Y > r.Max.Y {
		r.Max.Y = p.Y
	}
	return r
}

// Union returns the smallest rect covering r and o.
func (r Rect) Union(o Rect) Rect {
	if !o.Valid {
		return r
	}
	return r.Extend(o.Min).Extend(o.Max)
}

// boundsTracker keeps the painted bounds of a grid. Growth is tracked
// incrementally; removals only mark the bounds stale, and the next read
// rescans the grid.
type boundsTracker struct {
	rect  Rect
	stale bool
}

func (b *boundsTracker) add(p geom.Point) {
	if b.stale {
		return
	}
	b.rect = b.rect.Extend(p)
}

func (b *boundsTracker) remove(p geom.Point) {
	if b.rect.Contains(p) {
		b.stale = true
	}
}

func (b *boundsTracker) reset() {
	b.rect = Rect{}
	b.stale = false
}

func (b *boundsTracker) get(g PixelGrid) Rect {
	if b.stale {
		r := Rect{}
		g.Each(func(p geom.Point, _ palette.Color) { r = r.Extend(p) })
		b.rect = r
		b.stale = false
	}
	return b.rect
}
