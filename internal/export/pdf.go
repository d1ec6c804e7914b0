// Package export renders the user layer to PDF, PNG and a plain text
// summary.
package export

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jung-kurt/gofpdf"

	"PixelBoard/internal/state"
)

// ErrEmpty is returned when there is nothing painted to export.
var ErrEmpty = errors.New("nothing to export")

// PDFOptions control the PDF page.
type PDFOptions struct {
	// CellMM is the edge of one cell in millimetres.
	CellMM float64
	// MarginMM surrounds the drawing.
	MarginMM float64
	Title    string
}

func (o PDFOptions) withDefaults() PDFOptions {
	if o.CellMM <= 0 {
		o.CellMM = 2
	}
	if o.MarginMM < 0 {
		o.MarginMM = 0
	}
	return o
}

// WritePDF draws every user pixel as a filled square on a single page
// sized to the painted bounds.
func WritePDF(w io.Writer, c *state.Canvas, opts PDFOptions) error {
	bounds := c.Bounds()
	if !bounds.Valid {
		return ErrEmpty
	}
	opts = opts.withDefaults()

	width := float64(bounds.Width())*opts.CellMM + 2*opts.MarginMM
	height := float64(bounds.Height())*opts.CellMM + 2*opts.MarginMM

	orientation := "P"
	if width > height {
		orientation = "L"
	}
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: orientation,
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	if opts.Title != "" {
		p.SetTitle(opts.Title, true)
	}
	p.AddPage()

	for k, col := range c.UserSnapshot() {
		pt := k.Point()
		x := opts.MarginMM + float64(pt.X-bounds.Min.X)*opts.CellMM
		y := opts.MarginMM + float64(pt.Y-bounds.Min.Y)*opts.CellMM
		p.SetFillColor(int(col.R), int(col.G), int(col.B))
		p.Rect(x, y, opts.CellMM, opts.CellMM, "F")
	}

	if err := p.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// PDF writes the user layer to a PDF file at path.
func PDF(path string, c *state.Canvas, opts PDFOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePDF(f, c, opts); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	log.Printf("[EXPORT] Wrote %d pixels to %s", c.UserLen(), path)
	return nil
}
