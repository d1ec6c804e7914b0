package palette

import (
	"image/color"

	clr "github.com/lucasb-eyer/go-colorful"
)

var labCatalog = func() []clr.Color {
	out := make([]clr.Color, len(colors))
	for i, e := range colors {
		out[i], _ = clr.MakeColor(color.RGBA{R: e.RGB[0], G: e.RGB[1], B: e.RGB[2], A: 0xff})
	}
	return out
}()

// Nearest snaps src to the closest catalog colour by CIE Lab distance.
// Fully transparent input yields None.
func Nearest(src color.Color) Color {
	if _, _, _, a := src.RGBA(); a == 0 {
		return None
	}
	c, ok := clr.MakeColor(src)
	if !ok {
		return None
	}
	best, bestDist := 1, c.DistanceLab(labCatalog[1])
	for id := 2; id < len(labCatalog); id++ {
		if d := c.DistanceLab(labCatalog[id]); d < bestDist {
			best, bestDist = id, d
		}
	}
	return FromTriple(colors[best].RGB)
}
