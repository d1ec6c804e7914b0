package ui

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"PixelBoard/internal/config"
	"PixelBoard/internal/export"
	"PixelBoard/internal/geom"
	pbnet "PixelBoard/internal/net"
	"PixelBoard/internal/palette"
	"PixelBoard/internal/state"
	"PixelBoard/internal/tiles"
	"PixelBoard/internal/tool"
	"PixelBoard/internal/viewport"
)

// Options wires the editor window to the rest of the program.
type Options struct {
	Title     string
	Canvas    *state.Canvas
	View      *viewport.Viewport
	Selection *tool.Selection
	Loader    *tiles.Loader

	StorageFile string
	Export      config.Export
	// ShareURL is shown in the status bar so the extension can be
	// pointed at the bridge.
	ShareURL string
	// OnSaved runs after the user grid has been written to StorageFile.
	OnSaved func(pixels int)
}

// App is the editor window. It also implements the bridge's Editor so
// the parent page can drive it.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	opts    Options

	engine   *tool.Engine
	board    *BoardWidget
	controls *controls
	status   *widget.Label
	printer  *message.Printer

	mu       sync.Mutex
	hover    string
	notice   string
	shareURL string
}

var _ pbnet.Editor = (*App)(nil)

// New builds the editor window on a.
func New(a fyne.App, opts Options) *App {
	if opts.Title == "" {
		opts.Title = "PixelBoard"
	}
	app := &App{
		fyneApp:  a,
		opts:     opts,
		status:   widget.NewLabel("Ready"),
		printer:  message.NewPrinter(language.English),
		shareURL: opts.ShareURL,
	}
	app.engine = tool.NewEngine(opts.Canvas, opts.View, opts.Selection)
	app.board = NewBoardWidget(opts.Canvas, opts.View, app.engine)
	app.board.OnHover = app.setHover
	app.board.AfterRefresh = app.updateStatus
	app.controls = newControls(app)

	opts.Canvas.OnChange(func(state.Change) {
		app.board.ScheduleRefresh()
	})
	opts.Selection.OnChange(func() {
		fyne.Do(func() {
			app.controls.sync()
			app.updateStatus()
		})
	})

	app.window = a.NewWindow(opts.Title)
	app.window.Resize(fyne.NewSize(1024, 768))
	app.window.Canvas().SetOnTypedRune(app.typedRune)

	content := container.NewBorder(
		NewToolbar(app, app.controls),
		app.status,
		NewPalettePanel(app.controls),
		nil,
		app.board,
	)
	app.window.SetContent(content)
	app.updateStatus()
	return app
}

func (a *App) Window() fyne.Window { return a.window }

func (a *App) Board() *BoardWidget { return a.board }

func (a *App) Engine() *tool.Engine { return a.engine }

// Run shows the window and blocks until the application quits.
func (a *App) Run() {
	a.window.ShowAndRun()
}

// typedRune handles zoom keys and single-letter tool shortcuts.
func (a *App) typedRune(r rune) {
	switch r {
	case '+', '=':
		a.board.ZoomIn()
	case '-':
		a.board.ZoomOut()
	default:
		if t, ok := tool.ForShortcut(r); ok {
			a.opts.Selection.SetTool(t)
		}
	}
}

// --- Status bar ---

func (a *App) setHover(p geom.Point, ok bool) {
	a.mu.Lock()
	if ok {
		a.hover = p.String()
	} else {
		a.hover = ""
	}
	a.mu.Unlock()
	a.updateStatus()
}

// SetShareURL replaces the bridge address shown in the status bar.
func (a *App) SetShareURL(url string) {
	a.mu.Lock()
	a.shareURL = url
	a.mu.Unlock()
	fyne.Do(a.updateStatus)
}

// SetStatus shows a transient notice. Safe from any goroutine.
func (a *App) SetStatus(text string) {
	a.mu.Lock()
	a.notice = text
	a.mu.Unlock()
	fyne.Do(a.updateStatus)
}

func (a *App) updateStatus() {
	a.mu.Lock()
	hover, notice, share := a.hover, a.notice, a.shareURL
	a.mu.Unlock()

	sel := a.opts.Selection
	parts := []string{
		sel.Tool().String(),
		a.printer.Sprintf("%d pixels", a.opts.Canvas.UserLen()),
		a.printer.Sprintf("zoom %d", a.opts.View.PixelSize()),
	}
	if hover != "" {
		parts = append(parts, hover)
	}
	if share != "" {
		parts = append(parts, share)
	}
	if notice != "" {
		parts = append(parts, notice)
	}
	a.status.SetText(strings.Join(parts, "  |  "))
}

// --- Persistence ---

// Save writes the user grid to the configured storage file.
func (a *App) Save() {
	if a.opts.StorageFile == "" {
		a.showSaveAs()
		return
	}
	if err := state.SaveFile(a.opts.StorageFile, a.opts.Canvas); err != nil {
		log.Printf("[UI] Save failed: %v", err)
		a.SetStatus("Error saving file")
		return
	}
	n := a.opts.Canvas.UserLen()
	a.SetStatus(a.printer.Sprintf("Saved %d pixels", n))
	if a.opts.OnSaved != nil {
		a.opts.OnSaved(n)
	}
}

func (a *App) showSaveAs() {
	dialog.ShowFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil || w == nil {
			return
		}
		a.SaveToFile(w)
	}, a.window)
}

// SaveToFile writes the user grid to a file picked in a dialog.
func (a *App) SaveToFile(writer fyne.URIWriteCloser) {
	defer closeLogged(writer)
	if err := state.Save(writer, a.opts.Canvas); err != nil {
		log.Printf("[UI] Save to %s failed: %v", writer.URI(), err)
		a.SetStatus("Error saving file")
		return
	}
	a.SetStatus(a.printer.Sprintf("Saved %d pixels", a.opts.Canvas.UserLen()))
}

func (a *App) showOpen() {
	dialog.ShowFileOpen(func(r fyne.URIReadCloser, err error) {
		if err != nil || r == nil {
			return
		}
		a.LoadFromFile(r)
	}, a.window)
}

// LoadFromFile replaces the user grid with a saved document.
func (a *App) LoadFromFile(reader fyne.URIReadCloser) {
	defer closeLogged(reader)
	if err := state.Load(reader, a.opts.Canvas); err != nil {
		log.Printf("[UI] Load from %s failed: %v", reader.URI(), err)
		a.SetStatus("Error parsing file - invalid format")
		return
	}
	a.SetStatus(a.printer.Sprintf("Loaded %d pixels", a.opts.Canvas.UserLen()))
}

func closeLogged(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Printf("[UI] Error closing file: %v", err)
	}
}

func (a *App) confirmClear() {
	dialog.ShowConfirm("Clear", "Erase every pixel you painted?", func(ok bool) {
		if ok {
			a.opts.Canvas.ClearUser()
		}
	}, a.window)
}

// --- Export ---

func (a *App) showExportPDF() {
	dialog.ShowFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil || w == nil {
			return
		}
		defer closeLogged(w)
		opts := export.PDFOptions{CellMM: a.opts.Export.CellMM, Title: a.opts.Title}
		a.reportExport("PDF", export.WritePDF(w, a.opts.Canvas, opts))
	}, a.window)
}

func (a *App) showExportPNG() {
	dialog.ShowFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil || w == nil {
			return
		}
		defer closeLogged(w)
		a.reportExport("PNG", export.WritePNG(w, a.opts.Canvas, a.opts.Export.PNGScale))
	}, a.window)
}

func (a *App) reportExport(kind string, err error) {
	if err != nil {
		log.Printf("[EXPORT] %s export failed: %v", kind, err)
		a.SetStatus(fmt.Sprintf("%s export failed: %v", kind, err))
		return
	}
	a.SetStatus(kind + " exported")
}

func (a *App) showSummary() {
	var b strings.Builder
	if err := export.Summary(&b, a.opts.Canvas); err != nil {
		a.SetStatus(err.Error())
		return
	}
	text := widget.NewLabel(b.String())
	text.TextStyle = fyne.TextStyle{Monospace: true}
	scroll := container.NewVScroll(text)
	scroll.SetMinSize(fyne.NewSize(360, 320))
	dialog.ShowCustom("Summary", "Close", scroll, a.window)
}

// --- Tiles ---

func (a *App) showLoadTile() {
	source := widget.NewEntry()
	source.SetPlaceHolder("https://… or /path/to/tile.png")
	tileX := widget.NewEntry()
	tileX.SetText("0")
	tileY := widget.NewEntry()
	tileY.SetText("0")

	items := []*widget.FormItem{
		widget.NewFormItem("Source", source),
		widget.NewFormItem("Tile X", tileX),
		widget.NewFormItem("Tile Y", tileY),
	}
	dialog.ShowForm("Load tile", "Load", "Cancel", items, func(ok bool) {
		if !ok {
			return
		}
		tx, errX := strconv.Atoi(strings.TrimSpace(tileX.Text))
		ty, errY := strconv.Atoi(strings.TrimSpace(tileY.Text))
		if errX != nil || errY != nil {
			a.SetStatus("Tile coordinates must be integers")
			return
		}
		req := tiles.Request{Source: strings.TrimSpace(source.Text), TileX: tx, TileY: ty}
		err := a.opts.Loader.LoadAsync(context.Background(), req, func(res tiles.Result, err error) {
			a.reportTile(res, err)
		})
		if err != nil {
			a.SetStatus(err.Error())
			return
		}
		a.SetStatus("Loading tile...")
	}, a.window)
}

func (a *App) reportTile(res tiles.Result, err error) {
	if err != nil {
		a.SetStatus(fmt.Sprintf("Tile load failed: %v", err))
		return
	}
	a.SetStatus(a.printer.Sprintf("Tile %d,%d loaded (%d pixels)",
		res.Request.TileX, res.Request.TileY, res.Pixels))
}

// --- Editor ---

// Entries returns the serialized user grid.
func (a *App) Entries() []state.Entry {
	return a.opts.Canvas.Entries()
}

// SetColor selects the catalog entry matching c.
func (a *App) SetColor(c palette.Color) error {
	id, ok := palette.IDOf(c)
	if !ok {
		return fmt.Errorf("%w: %s", pbnet.ErrUnknownColor, c)
	}
	a.opts.Selection.SetColor(id)
	return nil
}

func (a *App) SetTool(t tool.Tool) {
	a.opts.Selection.SetTool(t)
}

// LoadTile loads a tile on the caller's goroutine.
func (a *App) LoadTile(ctx context.Context, req tiles.Request) (tiles.Result, error) {
	res, err := a.opts.Loader.Load(ctx, req)
	a.reportTile(res, err)
	return res, err
}

// PanToPixel centres the board on theoretical cell p.
func (a *App) PanToPixel(p geom.Point) {
	a.opts.View.PanToPixel(p)
	fyne.Do(a.board.refreshHover)
}

// Close quits the editor.
func (a *App) Close() {
	log.Println("[UI] Close requested by bridge")
	fyne.Do(a.fyneApp.Quit)
}
