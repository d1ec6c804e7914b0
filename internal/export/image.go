package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/nfnt/resize"

	"PixelBoard/internal/state"
)

// Image renders the painted bounds of the user layer at one image pixel
// per cell. Unpainted cells are transparent.
func Image(c *state.Canvas) (*image.NRGBA, error) {
	bounds := c.Bounds()
	if !bounds.Valid {
		return nil, ErrEmpty
	}
	img := image.NewNRGBA(image.Rect(0, 0, bounds.Width(), bounds.Height()))
	for k, col := range c.UserSnapshot() {
		p := k.Point()
		img.SetNRGBA(p.X-bounds.Min.X, p.Y-bounds.Min.Y, color.NRGBA{R: col.R, G: col.G, B: col.B, A: 0xff})
	}
	return img, nil
}

// WritePNG encodes the user layer with every cell scaled to scale x scale
// pixels. Scaling is nearest neighbour so cells stay crisp.
func WritePNG(w io.Writer, c *state.Canvas, scale int) error {
	img, err := Image(c)
	if err != nil {
		return err
	}
	var out image.Image = img
	if scale > 1 {
		b := img.Bounds()
		out = resize.Resize(uint(b.Dx()*scale), uint(b.Dy()*scale), img, resize.NearestNeighbor)
	}
	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
