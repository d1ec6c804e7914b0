// Package tiles decodes background tile images into pixel maps and loads
// them into the tile layer of a canvas.
package tiles

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/jsummers/gobmp"
	_ "golang.org/x/image/webp"

	"PixelBoard/internal/geom"
	"PixelBoard/internal/palette"
)

// Size is the edge of a background tile in cells.
const Size = 1000

func init() {
	image.RegisterFormat("bmp", "BM", gobmp.Decode, gobmp.DecodeConfig)
}

// Tile is a decoded image. Pixels are keyed relative to the image's
// top-left corner; fully transparent pixels are absent.
type Tile struct {
	Width, Height int
	Format        string
	Pixels        map[geom.Key]palette.Color
}

// Decode reads a PNG, WebP, BMP, GIF or JPEG image. Any pixel with a
// non-zero alpha becomes an opaque cell with its un-premultiplied RGB.
func Decode(r io.Reader) (Tile, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return Tile{}, fmt.Errorf("decode tile: %w", err)
	}

	b := img.Bounds()
	t := Tile{
		Width:  b.Dx(),
		Height: b.Dy(),
		Format: format,
		Pixels: make(map[geom.Key]palette.Color),
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				continue
			}
			t.Pixels[geom.PackKey(x-b.Min.X, y-b.Min.Y)] = palette.RGB(c.R, c.G, c.B)
		}
	}
	return t, nil
}

// Origin returns the theoretical cell of the top-left corner of tile
// (tileX, tileY).
func Origin(tileX, tileY int) geom.Point {
	return geom.Pt(tileX*Size, tileY*Size)
}

// Shift moves every pixel by origin.
func Shift(pixels map[geom.Key]palette.Color, origin geom.Point) map[geom.Key]palette.Color {
	out := make(map[geom.Key]palette.Color, len(pixels))
	for k, c := range pixels {
		p := k.Point().Add(origin)
		out[geom.PackKey(p.X, p.Y)] = c
	}
	return out
}

// Snap replaces every colour with its nearest catalog colour.
func Snap(pixels map[geom.Key]palette.Color) {
	cache := make(map[palette.Color]palette.Color)
	for k, c := range pixels {
		snapped, ok := cache[c]
		if !ok {
			snapped = palette.Nearest(c)
			cache[c] = snapped
		}
		if snapped.IsNone() {
			delete(pixels, k)
			continue
		}
		pixels[k] = snapped
	}
}
