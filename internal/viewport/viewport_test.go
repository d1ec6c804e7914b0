package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"PixelBoard/internal/geom"
)

func TestDefaults(t *testing.T) {
	v := New()
	assert.Equal(t, DefaultPixelSize, v.PixelSize())
	assert.Equal(t, geom.Pt(0, 0), v.Offset())
}

func TestMoveAccumulates(t *testing.T) {
	v := New()
	v.Move(3, -2)
	v.MoveViewport(geom.Pt(-1, 5))
	assert.Equal(t, geom.Pt(2, 3), v.Offset())
}

func TestPanToPixelCentres(t *testing.T) {
	v := New()
	v.SetDimensions(80, 60)
	v.PanToPixel(geom.Pt(500, 500))
	assert.Equal(t, geom.Pt(-460, -470), v.Offset())

	// the target now sits at the window centre
	centre := geom.TheoreticalToVisual(geom.Pt(500, 500), v.Offset())
	assert.Equal(t, geom.Pt(40, 30), centre)

	// odd dimensions floor
	v.SetDimensions(5, 5)
	v.PanToPixel(geom.Pt(0, 0))
	assert.Equal(t, geom.Pt(2, 2), v.Offset())
}

func TestZoomClampIsNoop(t *testing.T) {
	v := New()
	v.SetDimensions(100, 100)
	v.SetPixelSize(MaxPixelSize)
	v.SetOffset(geom.Pt(7, 9))
	v.ZoomIn()
	assert.Equal(t, MaxPixelSize, v.PixelSize())
	assert.Equal(t, geom.Pt(7, 9), v.Offset())

	v.SetPixelSize(MinPixelSize)
	v.ZoomOut()
	assert.Equal(t, MinPixelSize, v.PixelSize())
	assert.Equal(t, geom.Pt(7, 9), v.Offset())
}

func TestZoomRecentres(t *testing.T) {
	v := New()
	v.SetDimensions(100, 80)
	v.ZoomIn()
	// size 10 -> 12: ratio 10/12; x: centre 1050, newDim 83.33, 1000-round(1008.33) = -8
	// y: centre 1040, newDim 66.67, 1000-round(1006.67) = -7
	assert.Equal(t, 12, v.PixelSize())
	assert.Equal(t, geom.Pt(-8, -7), v.Offset())

	v = New()
	v.SetDimensions(100, 80)
	v.ZoomOut()
	// size 10 -> 8: ratio 1.25; x: 1000-round(1050-62.5) = 12; y: 1000-round(1040-50) = 10
	assert.Equal(t, 8, v.PixelSize())
	assert.Equal(t, geom.Pt(12, 10), v.Offset())
}

func TestSetPixelSizeClamps(t *testing.T) {
	v := New()
	v.SetPixelSize(100)
	assert.Equal(t, MaxPixelSize, v.PixelSize())
	v.SetPixelSize(-3)
	assert.Equal(t, MinPixelSize, v.PixelSize())
}

func TestVisible(t *testing.T) {
	v := New()
	v.SetDimensions(10, 5)
	v.SetOffset(geom.Pt(3, -2))
	min, max := v.Visible()
	assert.Equal(t, geom.Pt(-3, 2), min)
	assert.Equal(t, geom.Pt(6, 6), max)
}

func TestCellAt(t *testing.T) {
	v := New()
	assert.Equal(t, geom.Pt(2, 0), v.CellAt(25, 9.9))
	assert.Equal(t, geom.Pt(-1, -1), v.CellAt(-0.5, -3))
}
