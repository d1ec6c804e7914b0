// Package fill implements the capped 4-connected flood fill used by the
// paint bucket.
package fill

import (
	"PixelBoard/internal/geom"
	"PixelBoard/internal/palette"
)

// MaxCells bounds the size of a single fill.
const MaxCells = 1024

// Resolver returns the composed colour of a cell.
type Resolver func(x, y int) palette.Color

// neighbours in visiting order: right, down, left, up.
var neighbours = [4]geom.Point{{X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}, {X: 0, Y: -1}}

// ContiguousTransparent returns the transparent region 4-connected to
// start, in breadth-first dequeue order, truncated at MaxCells. A start
// cell that is not transparent yields an empty result.
func ContiguousTransparent(start geom.Point, resolve Resolver) []geom.Point {
	if !resolve(start.X, start.Y).IsNone() {
		return []geom.Point{}
	}

	visited := map[geom.Key]struct{}{geom.PackKey(start.X, start.Y): {}}
	queue := []geom.Point{start}
	result := make([]geom.Point, 0, 64)

	for len(queue) > 0 && len(result) < MaxCells {
		p := queue[0]
		queue = queue[1:]
		result = append(result, p)

		for _, d := range neighbours {
			n := p.Add(d)
			k := geom.PackKey(n.X, n.Y)
			if _, seen := visited[k]; seen {
				continue
			}
			visited[k] = struct{}{}
			if resolve(n.X, n.Y).IsNone() {
				queue = append(queue, n)
			}
		}
	}
	return result
}
