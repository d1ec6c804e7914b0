package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConverterRoundTrip(t *testing.T) {
	offsets := []Point{{0, 0}, {5, -7}, {-1000, 1000}, {math.MaxInt32, math.MinInt32}}
	points := []Point{{0, 0}, {3, 4}, {-12, 99}, {1 << 40, -(1 << 40)}}
	for _, o := range offsets {
		for _, p := range points {
			assert.Equal(t, p, TheoreticalToVisual(VisualToTheoretical(p, o), o))
			assert.Equal(t, p, VisualToTheoretical(TheoreticalToVisual(p, o), o))
		}
	}
}

func TestVisualToTheoreticalSubtractsOffset(t *testing.T) {
	assert.Equal(t, Pt(7, -3), VisualToTheoretical(Pt(10, 2), Pt(3, 5)))
	assert.Equal(t, Pt(13, 7), TheoreticalToVisual(Pt(10, 2), Pt(3, 5)))
}

func TestKeyPacking(t *testing.T) {
	points := []Point{
		{0, 0}, {1, -1}, {-1, 1}, {-5, -5},
		{math.MaxInt32, math.MinInt32}, {math.MinInt32, math.MaxInt32},
	}
	seen := map[Key]Point{}
	for _, p := range points {
		k := PackKey(p.X, p.Y)
		assert.Equal(t, p, k.Point())
		if prev, dup := seen[k]; dup {
			t.Fatalf("key collision between %v and %v", prev, p)
		}
		seen[k] = p
	}
}

func TestKeyString(t *testing.T) {
	assert.Equal(t, "-3,14", PackKey(-3, 14).String())

	k, err := ParseKey("-3,14")
	require.NoError(t, err)
	assert.Equal(t, PackKey(-3, 14), k)

	for _, bad := range []string{"", "3", "a,1", "1,b", "1, 2"} {
		_, err := ParseKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestBorderSegmentsSingleCell(t *testing.T) {
	got := BorderSegments([]Point{{2, 3}})
	assert.Equal(t, []Segment{
		{2, 3, 3, 3},
		{3, 3, 3, 4},
		{2, 4, 3, 4},
		{2, 3, 2, 4},
	}, got)
}

func TestBorderSegmentsSkipSharedEdges(t *testing.T) {
	// a 2x2 block has an outline of 8 unit edges
	block := []Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	assert.Len(t, BorderSegments(block), 8)

	// two diagonal cells share no edge
	assert.Len(t, BorderSegments([]Point{{0, 0}, {1, 1}}), 8)

	assert.Empty(t, BorderSegments(nil))
}
