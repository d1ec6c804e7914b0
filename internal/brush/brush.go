package brush

import (
	"math"

	"PixelBoard/internal/palette"
)

// Offset is a cell offset from the brush centre.
type Offset struct {
	DX, DY int
}

// CirclePattern rasterizes a disc of the given diameter. A cell (dx, dy)
// with |dx|, |dy| <= floor(d/2) is part of the disc when its distance from
// the centre is at most d/2. Offsets are returned row by row, top to bottom.
func CirclePattern(diameter int) []Offset {
	if diameter < 0 {
		diameter = 0
	}
	radius := float64(diameter) / 2
	half := diameter / 2

	pattern := make([]Offset, 0, (2*half+1)*(2*half+1))
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			if math.Sqrt(float64(dx*dx+dy*dy)) <= radius {
				pattern = append(pattern, Offset{dx, dy})
			}
		}
	}
	return pattern
}

// Size is an entry of the brush size picker.
type Size struct {
	ID       int
	Diameter int
	Name     string
}

var sizes = []Size{
	{0, 2, "Extra Small"},
	{1, 5, "Small"},
	{2, 7, "Medium"},
	{3, 11, "Large"},
}

// DefaultDiameter is the smallest brush.
const DefaultDiameter = 2

// Sizes returns the brush size catalog.
func Sizes() []Size {
	out := make([]Size, len(sizes))
	copy(out, sizes)
	return out
}

// StampPattern returns the pixels of stamp id exactly as catalogued, or an
// empty slice for an unknown id.
func StampPattern(id int) []palette.StampPixel {
	s, ok := palette.StampByID(id)
	if !ok {
		return []palette.StampPixel{}
	}
	out := make([]palette.StampPixel, len(s.Pixels))
	copy(out, s.Pixels)
	return out
}
