package palette

import (
	"fmt"
	"strings"
)

// StampPixel is one cell of a stamp relative to the stamp's anchor.
// Stamp colours are intrinsic and ignore the current fill selection.
type StampPixel struct {
	X, Y int
	RGB  [3]uint8
}

// Stamp is a named, fixed pixel set.
type Stamp struct {
	ID     int
	Name   string
	Pixels []StampPixel
}

var (
	black = [3]uint8{0, 0, 0}
	red   = [3]uint8{237, 28, 36}
)

// stampFromTemplate builds a pixel list from rows of runes. '.' and ' ' are
// empty cells, every other rune is looked up in legend. (ax, ay) is the
// template cell that becomes offset (0, 0).
func stampFromTemplate(template string, ax, ay int, legend map[rune][3]uint8) []StampPixel {
	var pixels []StampPixel
	rows := strings.Split(strings.Trim(template, "\n"), "\n")
	for y, row := range rows {
		for x, r := range strings.TrimRight(row, " ") {
			if r == '.' || r == ' ' {
				continue
			}
			rgb, ok := legend[r]
			if !ok {
				panic(fmt.Errorf("stamp template: no colour for %q", r))
			}
			pixels = append(pixels, StampPixel{X: x - ax, Y: y - ay, RGB: rgb})
		}
	}
	return pixels
}

func entryRGB(id int) [3]uint8 {
	e, _ := Lookup(id)
	return e.RGB
}

var stamps = []Stamp{
	{
		ID:   0,
		Name: "Smiley",
		Pixels: []StampPixel{
			{-1, -1, black},
			{1, -1, black},
			{-1, 1, black},
			{0, 2, black},
			{1, 1, black},
		},
	},
	{
		ID:   1,
		Name: "Heart",
		// (1,1) and (1,2) are listed twice; painting them twice is harmless.
		Pixels: []StampPixel{
			{-2, -1, red},
			{-1, -1, red},
			{1, -1, red},
			{2, -1, red},
			{-3, 0, red},
			{-2, 0, red},
			{-1, 0, red},
			{0, 0, red},
			{1, 0, red},
			{2, 0, red},
			{3, 0, red},
			{-2, 1, red},
			{-1, 1, red},
			{1, 1, red},
			{0, 1, red},
			{1, 1, red},
			{2, 1, red},
			{-1, 2, red},
			{1, 2, red},
			{0, 2, red},
			{1, 2, red},
			{0, 3, red},
		},
	},
	{
		ID:   2,
		Name: "Hay",
		Pixels: stampFromTemplate(`
..yyy..
.yyYyy.
yyYyyYy
yYyyYyy
ggggggg`, 3, 2, map[rune][3]uint8{
			'y': entryRGB(39),
			'Y': entryRGB(38),
			'g': entryRGB(37),
		}),
	},
	{
		ID:   3,
		Name: "Pine Tree",
		Pixels: stampFromTemplate(`
...g...
..ggg..
.gGggg.
..ggg..
.ggGgg.
ggggGgg
...b...
...b...`, 3, 7, map[rune][3]uint8{
			'g': entryRGB(15),
			'G': entryRGB(12),
			'b': entryRGB(29),
		}),
	},
	{
		ID:   4,
		Name: "Bush Yellow",
		Pixels: stampFromTemplate(`
.yyy.
yyYyy
yYyyd
.ddd.`, 2, 2, map[rune][3]uint8{
			'y': entryRGB(10),
			'Y': entryRGB(11),
			'd': entryRGB(9),
		}),
	},
}

// Stamps returns the stamp catalog in id order.
func Stamps() []Stamp {
	out := make([]Stamp, len(stamps))
	copy(out, stamps)
	return out
}

// StampByID returns the stamp with the given id.
func StampByID(id int) (Stamp, bool) {
	for _, s := range stamps {
		if s.ID == id {
			return s, true
		}
	}
	return Stamp{}, false
}
