package ui

import (
	"image"
	"image/color"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"PixelBoard/internal/geom"
	"PixelBoard/internal/palette"
	"PixelBoard/internal/state"
	"PixelBoard/internal/tool"
	"PixelBoard/internal/viewport"
)

// dimmedTileAlpha is the tile layer alpha while tiles are dimmed.
const dimmedTileAlpha = 0x80

var (
	backgroundColor = color.NRGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff}
	outlineColor    = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
)

// BoardWidget renders the visible part of the canvas and feeds pointer
// events to the tool engine. All event handlers run on the fyne event
// loop, which is the only goroutine that touches the engine.
type BoardWidget struct {
	widget.BaseWidget

	canvas *state.Canvas
	view   *viewport.Viewport
	engine *tool.Engine

	// OnHover reports the theoretical cell under the pointer; ok is false
	// once the pointer has left the board.
	OnHover func(p geom.Point, ok bool)
	// AfterRefresh runs on the event loop after a scheduled refresh.
	AfterRefresh func()

	pending  atomic.Bool
	dimTiles atomic.Bool
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(c *state.Canvas, v *viewport.Viewport, e *tool.Engine) *BoardWidget {
	b := &BoardWidget{canvas: c, view: v, engine: e}
	b.ExtendBaseWidget(b)
	return b
}

// ScheduleRefresh coalesces redraw requests from any goroutine into a
// single refresh on the fyne event loop. A bucket fill fires one canvas
// change per cell.
func (b *BoardWidget) ScheduleRefresh() {
	if b.pending.Swap(true) {
		return
	}
	fyne.Do(func() {
		b.pending.Store(false)
		b.Refresh()
		if b.AfterRefresh != nil {
			b.AfterRefresh()
		}
	})
}

// ToggleTileOpacity switches the tile layer between full and half
// opacity.
func (b *BoardWidget) ToggleTileOpacity() {
	b.dimTiles.Store(!b.dimTiles.Load())
	b.Refresh()
}

// ZoomIn and ZoomOut step the cell size and redraw.
func (b *BoardWidget) ZoomIn() {
	b.view.ZoomIn()
	b.refreshHover()
}

func (b *BoardWidget) ZoomOut() {
	b.view.ZoomOut()
	b.refreshHover()
}

// refreshHover drops the hover set, since its visual cells no longer
// match after the view changed, then redraws.
func (b *BoardWidget) refreshHover() {
	b.engine.ClearHover()
	b.Refresh()
}

func (b *BoardWidget) pointer(pos fyne.Position) (tool.ScreenPoint, geom.Point) {
	return tool.ScreenPoint{X: pos.X, Y: pos.Y}, b.view.CellAt(float64(pos.X), float64(pos.Y))
}

func (b *BoardWidget) hovered(v geom.Point) {
	if b.OnHover != nil {
		b.OnHover(geom.VisualToTheoretical(v, b.view.Offset()), true)
	}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	s, v := b.pointer(e.Position)
	b.engine.PointerDown(s, v)
	b.hovered(v)
	b.Refresh()
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.engine.PointerUp()
	b.Refresh()
}

func (b *BoardWidget) moved(pos fyne.Position) {
	s, v := b.pointer(pos)
	b.engine.PointerMove(s, v)
	b.hovered(v)
	b.Refresh()
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.moved(e.Position)
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.moved(e.Position)
}

func (b *BoardWidget) DragEnd() {
	b.engine.PointerUp()
	b.Refresh()
}

func (b *BoardWidget) MouseIn(e *desktop.MouseEvent) {
	b.moved(e.Position)
}

func (b *BoardWidget) MouseOut() {
	b.engine.PointerLeave()
	if b.OnHover != nil {
		b.OnHover(geom.Point{}, false)
	}
	b.Refresh()
}

// Scrolled zooms: wheel up enlarges cells.
func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	switch {
	case e.Scrolled.DY > 0:
		b.ZoomIn()
	case e.Scrolled.DY < 0:
		b.ZoomOut()
	}
}

// compose draws one image pixel per visible cell. The raster scales it
// up with nearest-neighbour sampling.
func (b *BoardWidget) compose(_, _ int) image.Image {
	cols, rows := b.view.Dimensions()
	img := image.NewNRGBA(image.Rect(0, 0, max(cols, 1), max(rows, 1)))
	if cols <= 0 || rows <= 0 {
		return img
	}

	tileAlpha := uint8(0xff)
	if b.dimTiles.Load() {
		tileAlpha = dimmedTileAlpha
	}
	origin := geom.VisualToTheoretical(geom.Pt(0, 0), b.view.Offset())
	user, tile := b.canvas.Region(origin, cols, rows)
	for i := range user {
		x, y := i%cols, i/cols
		switch {
		case user[i].Valid:
			img.SetNRGBA(x, y, nrgba(user[i], 0xff))
		case tile[i].Valid:
			img.SetNRGBA(x, y, nrgba(tile[i], tileAlpha))
		}
	}
	return img
}

func nrgba(c palette.Color, alpha uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: alpha}
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(backgroundColor)
	r.raster = canvas.NewRaster(b.compose)
	r.raster.ScaleMode = canvas.ImageScalePixels
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	raster     *canvas.Raster
	outline    []fyne.CanvasObject
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, 0, 2+len(r.outline))
	objects = append(objects, r.background, r.raster)
	return append(objects, r.outline...)
}

// Layout sizes the window in whole cells. A partial cell at the right or
// bottom edge is left blank.
func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	ps := r.board.view.PixelSize()
	cols, rows := int(size.Width)/ps, int(size.Height)/ps
	r.board.view.SetDimensions(cols, rows)

	r.background.Resize(size)
	r.raster.Move(fyne.NewPos(0, 0))
	r.raster.Resize(fyne.NewSize(float32(cols*ps), float32(rows*ps)))
}

func (r *boardWidgetRenderer) Refresh() {
	r.Layout(r.board.Size())
	r.outline = r.buildOutline()
	r.raster.Refresh()
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) buildOutline() []fyne.CanvasObject {
	segments := geom.BorderSegments(r.board.engine.Hover())
	if len(segments) == 0 {
		return nil
	}
	ps := float32(r.board.view.PixelSize())
	lines := make([]fyne.CanvasObject, len(segments))
	for i, s := range segments {
		line := canvas.NewLine(outlineColor)
		line.StrokeWidth = 1
		line.Position1 = fyne.NewPos(float32(s.X1)*ps, float32(s.Y1)*ps)
		line.Position2 = fyne.NewPos(float32(s.X2)*ps, float32(s.Y2)*ps)
		lines[i] = line
	}
	return lines
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Destroy() {}
