package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"PixelBoard/internal/brush"
	"PixelBoard/internal/palette"
	"PixelBoard/internal/tool"
)

const swatchSize = 24

var (
	swatchBorder   = color.Gray{Y: 150}
	selectedBorder = color.NRGBA{R: 0x10, G: 0x60, B: 0xe0, A: 0xff}
)

// --- Swatches ---

// swatch is a tappable square showing a colour or a texture preview.
type swatch struct {
	widget.BaseWidget
	fill     fyne.CanvasObject
	border   *canvas.Rectangle
	selected bool
	OnTapped func()
}

func newSwatch(fill fyne.CanvasObject, tapped func()) *swatch {
	s := &swatch{fill: fill, OnTapped: tapped}
	s.border = canvas.NewRectangle(color.Transparent)
	s.border.StrokeColor = swatchBorder
	s.border.StrokeWidth = 1
	s.ExtendBaseWidget(s)
	return s
}

func newColorSwatch(e palette.Entry, tapped func()) *swatch {
	var fill color.Color = color.Transparent
	if c := e.Color(); c.Valid {
		fill = c
	}
	rect := canvas.NewRectangle(fill)
	rect.SetMinSize(fyne.NewSize(swatchSize, swatchSize))
	return newSwatch(rect, tapped)
}

// newTextureSwatch previews a texture at three screen pixels per cell.
func newTextureSwatch(t palette.Texture, tapped func()) *swatch {
	r := canvas.NewRasterWithPixels(func(x, y, _, _ int) color.Color {
		return t.Render(x/3, y/3)
	})
	r.SetMinSize(fyne.NewSize(swatchSize, swatchSize))
	return newSwatch(r, tapped)
}

func (s *swatch) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(s.fill, s.border))
}

func (s *swatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped()
	}
}

func (s *swatch) SetSelected(selected bool) {
	if s.selected == selected {
		return
	}
	s.selected = selected
	if selected {
		s.border.StrokeColor = selectedBorder
		s.border.StrokeWidth = 3
	} else {
		s.border.StrokeColor = swatchBorder
		s.border.StrokeWidth = 1
	}
	s.border.Refresh()
}

// --- Controls ---

// controls mirrors the selection into widgets and back. syncing guards
// the widget callbacks while the selection is being copied in.
type controls struct {
	app *App

	tools    *widget.Select
	sizes    *widget.Select
	stamps   *widget.Select
	colors   map[int]*swatch
	textures map[int]*swatch

	syncing bool
}

func newControls(a *App) *controls {
	c := &controls{
		app:      a,
		colors:   make(map[int]*swatch),
		textures: make(map[int]*swatch),
	}
	sel := a.opts.Selection

	toolNames := make([]string, 0, len(tool.Tools()))
	for _, t := range tool.Tools() {
		toolNames = append(toolNames, t.String())
	}
	c.tools = widget.NewSelect(toolNames, func(name string) {
		if c.syncing {
			return
		}
		if t, err := tool.Parse(name); err == nil {
			sel.SetTool(t)
		}
	})

	sizeNames := make([]string, 0, len(brush.Sizes()))
	for _, s := range brush.Sizes() {
		sizeNames = append(sizeNames, s.Name)
	}
	c.sizes = widget.NewSelect(sizeNames, func(name string) {
		if c.syncing {
			return
		}
		for _, s := range brush.Sizes() {
			if s.Name == name {
				sel.SetBrushDiameter(s.Diameter)
				return
			}
		}
	})

	stampNames := make([]string, 0, len(palette.Stamps()))
	for _, s := range palette.Stamps() {
		stampNames = append(stampNames, s.Name)
	}
	c.stamps = widget.NewSelect(stampNames, func(name string) {
		if c.syncing {
			return
		}
		for _, s := range palette.Stamps() {
			if s.Name == name {
				sel.SetStamp(s.ID)
				return
			}
		}
	})

	for _, e := range palette.Colors() {
		id := e.ID
		c.colors[id] = newColorSwatch(e, func() { sel.SetColor(id) })
	}
	for _, t := range palette.Textures() {
		id := t.ID
		c.textures[id] = newTextureSwatch(t, func() { sel.SetTexture(id) })
	}

	c.sync()
	return c
}

// sync copies the selection into the widgets. Run it on the fyne
// event loop.
func (c *controls) sync() {
	sel := c.app.opts.Selection
	c.syncing = true
	defer func() { c.syncing = false }()

	c.tools.SetSelected(sel.Tool().String())
	for _, s := range brush.Sizes() {
		if s.Diameter == sel.BrushDiameter() {
			c.sizes.SetSelected(s.Name)
		}
	}
	if s, ok := palette.StampByID(sel.StampID()); ok {
		c.stamps.SetSelected(s.Name)
	}

	textureMode := sel.FillMode() == tool.FillTexture
	for id, s := range c.colors {
		s.SetSelected(!textureMode && id == sel.ColorID())
	}
	for id, s := range c.textures {
		s.SetSelected(textureMode && id == sel.TextureID())
	}
}

// --- The Main Toolbar ---

// NewToolbar builds the row of actions and pickers shown above the board.
func NewToolbar(a *App, c *controls) fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ZoomInIcon(), a.board.ZoomIn),
		widget.NewToolbarAction(theme.ZoomOutIcon(), a.board.ZoomOut),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), a.Save),
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.showOpen),
		widget.NewToolbarAction(theme.DownloadIcon(), a.showLoadTile),
		widget.NewToolbarAction(theme.VisibilityIcon(), a.board.ToggleTileOpacity),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), a.showExportPDF),
		widget.NewToolbarAction(theme.MediaPhotoIcon(), a.showExportPNG),
		widget.NewToolbarAction(theme.InfoIcon(), a.showSummary),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), a.confirmClear),
	)

	return container.NewHBox(
		widget.NewLabel("Tool:"),
		c.tools,
		widget.NewSeparator(),
		widget.NewLabel("Brush:"),
		c.sizes,
		widget.NewLabel("Stamp:"),
		c.stamps,
		widget.NewSeparator(),
		tb,
		layout.NewSpacer(),
	)
}

// NewPalettePanel lays out the colour and texture swatches.
func NewPalettePanel(c *controls) fyne.CanvasObject {
	cell := fyne.NewSize(swatchSize, swatchSize)

	colorGrid := container.NewGridWrap(cell)
	for _, e := range palette.Colors() {
		colorGrid.Add(c.colors[e.ID])
	}
	textureGrid := container.NewGridWrap(cell)
	for _, t := range palette.Textures() {
		textureGrid.Add(c.textures[t.ID])
	}

	panel := container.NewVBox(
		widget.NewLabel("Colors"),
		colorGrid,
		widget.NewSeparator(),
		widget.NewLabel("Textures"),
		textureGrid,
	)
	scroll := container.NewVScroll(panel)
	scroll.SetMinSize(fyne.NewSize(4*swatchSize+24, 200))
	return scroll
}
