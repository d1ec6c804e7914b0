// Package geom holds the integer coordinate types shared by the grid, the
// tools and the renderer, together with the theoretical/visual transforms.
//
// Theoretical coordinates address the infinite grid. Visual coordinates
// address cells of the viewport window, whose top-left cell shows the
// theoretical cell -offset.
package geom

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a cell address. Any pair of ints is valid.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// String formats the point as "x,y".
func (p Point) String() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

// VisualToTheoretical maps a viewport cell to the grid cell it shows.
func VisualToTheoretical(v, offset Point) Point {
	return v.Sub(offset)
}

// TheoreticalToVisual maps a grid cell to its viewport cell. The offset
// is added here and subtracted in VisualToTheoretical, so the pair round
// trips exactly.
func TheoreticalToVisual(t, offset Point) Point {
	return t.Add(offset)
}

// Key packs a point into a single map key: x in the high 32 bits, y in the
// low 32 bits. Coordinates outside the int32 range wrap.
type Key uint64

// PackKey packs (x, y).
func PackKey(x, y int) Key {
	return Key(uint64(uint32(int32(x)))<<32 | uint64(uint32(int32(y))))
}

// Point unpacks the key.
func (k Key) Point() Point {
	return Point{X: int(int32(uint32(k >> 32))), Y: int(int32(uint32(k)))}
}

// String formats the key as "x,y" with no spaces.
func (k Key) String() string {
	return k.Point().String()
}

// ParseKey parses the "x,y" form.
func ParseKey(s string) (Key, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, fmt.Errorf("invalid key %q: missing comma", s)
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, fmt.Errorf("invalid key %q: %w", s, err)
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return 0, fmt.Errorf("invalid key %q: %w", s, err)
	}
	return PackKey(x, y), nil
}
