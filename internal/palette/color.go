package palette

import (
	"fmt"
	"image/color"
	"regexp"
	"strconv"
)

// Color is an opaque RGB triple or the transparent sentinel None.
// There is no alpha channel: transparency is the absence of a pixel.
type Color struct {
	R, G, B uint8
	Valid   bool
}

// None is the transparent colour. It is the zero value of Color.
var None = Color{}

// RGB returns a valid colour from its components.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Valid: true}
}

// FromTriple builds a colour from a [3]uint8 as stored in the stamp tables.
func FromTriple(rgb [3]uint8) Color {
	return RGB(rgb[0], rgb[1], rgb[2])
}

// IsNone reports whether c is transparent.
func (c Color) IsNone() bool {
	return !c.Valid
}

// String formats c as "rgb(R, G, B)". Consumers split on this exact
// format, so the single space after each comma must stay. None formats
// as the empty string.
func (c Color) String() string {
	if !c.Valid {
		return ""
	}
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// RGBA implements color.Color. None is fully transparent.
func (c Color) RGBA() (r, g, b, a uint32) {
	if !c.Valid {
		return 0, 0, 0, 0
	}
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

var rgbPattern = regexp.MustCompile(`rgb\((\d+),\s*(\d+),\s*(\d+)\)`)

// ParseRGB parses the "rgb(r, g, b)" form. Anything that does not match,
// including out-of-range components, yields None and false.
func ParseRGB(s string) (Color, bool) {
	m := rgbPattern.FindStringSubmatch(s)
	if m == nil {
		return None, false
	}
	var parts [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseUint(m[i+1], 10, 8)
		if err != nil {
			return None, false
		}
		parts[i] = uint8(v)
	}
	return FromTriple(parts), true
}

// MarshalText writes the serialized form so colours can be used directly
// in JSON documents.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText accepts the serialized form. The empty string decodes to None.
func (c *Color) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*c = None
		return nil
	}
	parsed, ok := ParseRGB(string(text))
	if !ok {
		return fmt.Errorf("invalid color %q", text)
	}
	*c = parsed
	return nil
}
