// Package viewport models the window onto the infinite grid: an integer
// offset, a cell size in screen pixels and the window size in cells.
package viewport

import (
	"math"
	"sync"

	"PixelBoard/internal/geom"
)

const (
	MinPixelSize     = 2
	MaxPixelSize     = 16
	PixelSizeStep    = 2
	DefaultPixelSize = 10

	// TileSize is the edge of a background tile. Zoom recentres around
	// the tile origin.
	TileSize = 1000
)

// Viewport is safe for concurrent use.
type Viewport struct {
	mu        sync.RWMutex
	offset    geom.Point
	pixelSize int
	width     int
	height    int
}

// New returns a viewport at offset (0, 0) with the default pixel size.
func New() *Viewport {
	return &Viewport{pixelSize: DefaultPixelSize}
}

// ClampPixelSize forces size into [MinPixelSize, MaxPixelSize].
func ClampPixelSize(size int) int {
	if size < MinPixelSize {
		return MinPixelSize
	}
	if size > MaxPixelSize {
		return MaxPixelSize
	}
	return size
}

func (v *Viewport) Offset() geom.Point {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.offset
}

func (v *Viewport) SetOffset(p geom.Point) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = p
}

func (v *Viewport) PixelSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.pixelSize
}

// SetPixelSize sets the cell size without recentring. Out of range
// values are clamped.
func (v *Viewport) SetPixelSize(size int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pixelSize = ClampPixelSize(size)
}

// Dimensions returns the window size in cells.
func (v *Viewport) Dimensions() (w, h int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}

func (v *Viewport) SetDimensions(w, h int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width, v.height = w, h
}

// Move shifts the offset by (dx, dy) cells.
func (v *Viewport) Move(dx, dy int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = v.offset.Add(geom.Pt(dx, dy))
}

// MoveViewport is Move taking a point delta.
func (v *Viewport) MoveViewport(d geom.Point) {
	v.Move(d.X, d.Y)
}

// PanToPixel centres the window on theoretical cell p.
func (v *Viewport) PanToPixel(p geom.Point) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = geom.Pt(
		int(math.Floor(-(float64(p.X) - float64(v.width)/2))),
		int(math.Floor(-(float64(p.Y) - float64(v.height)/2))),
	)
}

// ZoomIn grows the cell size by one step, keeping the window centre.
func (v *Viewport) ZoomIn() {
	v.zoom(PixelSizeStep)
}

// ZoomOut shrinks the cell size by one step, keeping the window centre.
func (v *Viewport) ZoomOut() {
	v.zoom(-PixelSizeStep)
}

func (v *Viewport) zoom(step int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	next := ClampPixelSize(v.pixelSize + step)
	if next == v.pixelSize {
		return
	}
	ratio := float64(v.pixelSize) / float64(next)
	v.offset = geom.Pt(
		recentre(v.offset.X, v.width, ratio),
		recentre(v.offset.Y, v.height, ratio),
	)
	v.pixelSize = next
}

func recentre(offset, dim int, ratio float64) int {
	centre := float64(TileSize-offset) + float64(dim)/2
	newDim := float64(dim) * ratio
	return TileSize - int(math.Floor(centre-newDim/2+0.5))
}

// Visible returns the theoretical cells covered by the window.
func (v *Viewport) Visible() (min, max geom.Point) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	min = geom.VisualToTheoretical(geom.Pt(0, 0), v.offset)
	max = geom.VisualToTheoretical(geom.Pt(v.width-1, v.height-1), v.offset)
	return min, max
}

// CellAt maps a screen position inside the window to its visual cell.
func (v *Viewport) CellAt(sx, sy float64) geom.Point {
	size := float64(v.PixelSize())
	return geom.Pt(int(math.Floor(sx/size)), int(math.Floor(sy/size)))
}
