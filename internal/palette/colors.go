package palette

// Entry is one colour of the catalog.
type Entry struct {
	ID   int
	Name string
	RGB  [3]uint8
}

// Color returns the entry as a Color. The transparent entry yields None.
func (e Entry) Color() Color {
	if e.ID == TransparentID {
		return None
	}
	return FromTriple(e.RGB)
}

// TransparentID is the catalog id that stands for "no colour".
const TransparentID = 0

// colors is the map site's palette: 32 free colours followed by the premium set.
var colors = []Entry{
	{0, "Transparent", [3]uint8{0, 0, 0}},
	{1, "Black", [3]uint8{0, 0, 0}},
	{2, "Dark Gray", [3]uint8{60, 60, 60}},
	{3, "Gray", [3]uint8{120, 120, 120}},
	{4, "Light Gray", [3]uint8{210, 210, 210}},
	{5, "White", [3]uint8{255, 255, 255}},
	{6, "Deep Red", [3]uint8{96, 0, 24}},
	{7, "Red", [3]uint8{237, 28, 36}},
	{8, "Orange", [3]uint8{255, 127, 39}},
	{9, "Gold", [3]uint8{246, 170, 9}},
	{10, "Yellow", [3]uint8{249, 221, 59}},
	{11, "Light Yellow", [3]uint8{255, 250, 188}},
	{12, "Dark Green", [3]uint8{14, 185, 104}},
	{13, "Green", [3]uint8{19, 230, 123}},
	{14, "Light Green", [3]uint8{135, 255, 94}},
	{15, "Dark Teal", [3]uint8{12, 129, 110}},
	{16, "Teal", [3]uint8{16, 174, 166}},
	{17, "Light Teal", [3]uint8{19, 225, 190}},
	{18, "Dark Blue", [3]uint8{40, 80, 158}},
	{19, "Blue", [3]uint8{64, 147, 228}},
	{20, "Cyan", [3]uint8{96, 247, 242}},
	{21, "Indigo", [3]uint8{107, 80, 246}},
	{22, "Light Indigo", [3]uint8{153, 177, 251}},
	{23, "Dark Purple", [3]uint8{120, 12, 153}},
	{24, "Purple", [3]uint8{170, 56, 185}},
	{25, "Light Purple", [3]uint8{224, 159, 249}},
	{26, "Dark Pink", [3]uint8{203, 0, 122}},
	{27, "Pink", [3]uint8{236, 31, 128}},
	{28, "Light Pink", [3]uint8{243, 141, 169}},
	{29, "Dark Brown", [3]uint8{104, 70, 52}},
	{30, "Brown", [3]uint8{149, 104, 42}},
	{31, "Beige", [3]uint8{248, 178, 119}},

	{32, "Medium Gray", [3]uint8{170, 170, 170}},
	{33, "Dark Red", [3]uint8{165, 14, 30}},
	{34, "Light Red", [3]uint8{250, 128, 114}},
	{35, "Dark Orange", [3]uint8{228, 92, 26}},
	{36, "Light Tan", [3]uint8{214, 181, 148}},
	{37, "Dark Goldenrod", [3]uint8{156, 132, 49}},
	{38, "Goldenrod", [3]uint8{197, 173, 49}},
	{39, "Light Goldenrod", [3]uint8{232, 212, 95}},
	{40, "Dark Olive", [3]uint8{74, 107, 58}},
	{41, "Olive", [3]uint8{90, 148, 74}},
	{42, "Light Olive", [3]uint8{132, 197, 115}},
	{43, "Dark Cyan", [3]uint8{15, 121, 159}},
	{44, "Light Cyan", [3]uint8{187, 250, 242}},
	{45, "Light Blue", [3]uint8{125, 199, 255}},
	{46, "Dark Indigo", [3]uint8{77, 49, 184}},
	{47, "Dark Slate Blue", [3]uint8{74, 66, 132}},
	{48, "Slate Blue", [3]uint8{122, 113, 196}},
	{49, "Light Slate Blue", [3]uint8{181, 174, 241}},
	{50, "Light Brown", [3]uint8{219, 164, 99}},
	{51, "Dark Beige", [3]uint8{209, 128, 81}},
	{52, "Light Beige", [3]uint8{255, 197, 165}},
	{53, "Dark Peach", [3]uint8{155, 82, 73}},
	{54, "Peach", [3]uint8{209, 128, 120}},
	{55, "Light Peach", [3]uint8{250, 182, 164}},
	{56, "Dark Tan", [3]uint8{123, 99, 82}},
	{57, "Tan", [3]uint8{156, 132, 107}},
	{58, "Dark Slate", [3]uint8{51, 57, 65}},
	{59, "Slate", [3]uint8{109, 117, 141}},
	{60, "Light Slate", [3]uint8{179, 185, 209}},
	{61, "Dark Stone", [3]uint8{109, 100, 63}},
	{62, "Stone", [3]uint8{148, 140, 107}},
	{63, "Light Stone", [3]uint8{205, 197, 158}},
}

// Colors returns a copy of the catalog in id order.
func Colors() []Entry {
	out := make([]Entry, len(colors))
	copy(out, colors)
	return out
}

// Lookup returns the catalog entry for id.
func Lookup(id int) (Entry, bool) {
	if id < 0 || id >= len(colors) {
		return Entry{}, false
	}
	return colors[id], true
}

// ByID returns the colour for id. The transparent entry and unknown ids
// both report false.
func ByID(id int) (Color, bool) {
	e, ok := Lookup(id)
	if !ok || e.ID == TransparentID {
		return None, false
	}
	return e.Color(), true
}

// IDOf finds the catalog id whose RGB matches c exactly. The transparent
// entry never matches.
func IDOf(c Color) (int, bool) {
	if c.IsNone() {
		return 0, false
	}
	for _, e := range colors[1:] {
		if e.RGB[0] == c.R && e.RGB[1] == c.G && e.RGB[2] == c.B {
			return e.ID, true
		}
	}
	return 0, false
}

// IDOfString is IDOf over the serialized "rgb(r, g, b)" form.
func IDOfString(s string) (int, bool) {
	c, ok := ParseRGB(s)
	if !ok {
		return 0, false
	}
	return IDOf(c)
}
