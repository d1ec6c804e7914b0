package geom

// Segment is a unit edge between two cell corners.
type Segment struct {
	X1, Y1, X2, Y2 int
}

// BorderSegments returns the outline of a cell set: for every cell, the
// top, right, bottom and left edges (in that order) that have no
// neighbouring cell in the set.
func BorderSegments(points []Point) []Segment {
	if len(points) == 0 {
		return nil
	}

	set := make(map[Point]struct{}, len(points))
	for _, p := range points {
		set[p] = struct{}{}
	}
	has := func(x, y int) bool {
		_, ok := set[Point{x, y}]
		return ok
	}

	var segments []Segment
	for _, p := range points {
		x, y := p.X, p.Y
		if !has(x, y-1) {
			segments = append(segments, Segment{x, y, x + 1, y})
		}
		if !has(x+1, y) {
			segments = append(segments, Segment{x + 1, y, x + 1, y + 1})
		}
		if !has(x, y+1) {
			segments = append(segments, Segment{x, y + 1, x + 1, y + 1})
		}
		if !has(x-1, y) {
			segments = append(segments, Segment{x, y, x, y + 1})
		}
	}
	return segments
}
