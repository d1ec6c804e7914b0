package export

import (
	"fmt"
	"io"
	"sort"

	"PixelBoard/internal/palette"
	"PixelBoard/internal/state"
)

// Summary writes a plain text report: bounds and pixel counts per colour,
// most used first.
func Summary(w io.Writer, c *state.Canvas) error {
	counts := make(map[palette.Color]int)
	for _, col := range c.UserSnapshot() {
		counts[col]++
	}
	colors := make([]palette.Color, 0, len(counts))
	for col := range counts {
		colors = append(colors, col)
	}
	sort.Slice(colors, func(i, j int) bool {
		if counts[colors[i]] != counts[colors[j]] {
			return counts[colors[i]] > counts[colors[j]]
		}
		return colors[i].String() < colors[j].String()
	})

	b := c.Bounds()
	fmt.Fprintf(w, "PixelBoard Export\n")
	fmt.Fprintf(w, "=================\n\n")
	fmt.Fprintf(w, "Pixels: %d\n", c.UserLen())
	if b.Valid {
		fmt.Fprintf(w, "Bounds: %s to %s (%dx%d)\n", b.Min, b.Max, b.Width(), b.Height())
	}
	fmt.Fprintf(w, "\n")

	for _, col := range colors {
		name := "custom"
		if id, ok := palette.IDOf(col); ok {
			e, _ := palette.Lookup(id)
			name = e.Name
		}
		if _, err := fmt.Fprintf(w, "%-20s %-20s %d\n", name, col, counts[col]); err != nil {
			return err
		}
	}
	return nil
}
