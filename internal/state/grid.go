package state

import (
	"PixelBoard/internal/geom"
	"PixelBoard/internal/palette"
)

// PixelGrid is a sparse map from packed cell keys to colours. A missing
// key is a transparent cell; None is never stored.
type PixelGrid map[geom.Key]palette.Color

// NewPixelGrid returns an empty grid.
func NewPixelGrid() PixelGrid {
	return make(PixelGrid)
}

// Set stores c at (x, y). Setting None removes the cell.
func (g PixelGrid) Set(x, y int, c palette.Color) {
	k := geom.PackKey(x, y)
	if c.IsNone() {
		delete(g, k)
		return
	}
	g[k] = c
}

// Get returns the colour at (x, y) and whether the cell is painted.
func (g PixelGrid) Get(x, y int) (palette.Color, bool) {
	c, ok := g[geom.PackKey(x, y)]
	return c, ok
}

func (g PixelGrid) Delete(x, y int) {
	delete(g, geom.PackKey(x, y))
}

func (g PixelGrid) Clear() {
	for k := range g {
		delete(g, k)
	}
}

// Load merges src into g. Entries in src overwrite existing cells;
// None entries are dropped.
func (g PixelGrid) Load(src map[geom.Key]palette.Color) {
	for k, c := range src {
		if c.IsNone() {
			continue
		}
		g[k] = c
	}
}

func (g PixelGrid) Len() int {
	return len(g)
}

// Each calls fn for every painted cell in unspecified order.
func (g PixelGrid) Each(fn func(p geom.Point, c palette.Color)) {
	for k, c := range g {
		fn(k.Point(), c)
	}
}
