package state

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PixelBoard/internal/geom"
	"PixelBoard/internal/palette"
)

var (
	red   = palette.RGB(237, 28, 36)
	black = palette.RGB(0, 0, 0)
	white = palette.RGB(255, 255, 255)
)

func TestPixelGridSetNoneDeletes(t *testing.T) {
	g := NewPixelGrid()
	g.Set(-4, 9, red)
	c, ok := g.Get(-4, 9)
	require.True(t, ok)
	assert.Equal(t, red, c)

	g.Set(-4, 9, palette.None)
	_, ok = g.Get(-4, 9)
	assert.False(t, ok)
	assert.Equal(t, 0, g.Len())
}

func TestPixelGridLoadMerges(t *testing.T) {
	g := NewPixelGrid()
	g.Set(0, 0, red)
	g.Set(1, 0, red)
	g.Load(map[geom.Key]palette.Color{
		geom.PackKey(1, 0): black,
		geom.PackKey(2, 0): white,
		geom.PackKey(3, 0): palette.None,
	})
	assert.Equal(t, 3, g.Len())
	c, _ := g.Get(1, 0)
	assert.Equal(t, black, c)
}

func TestEffectiveColorLayering(t *testing.T) {
	c := NewCanvas()
	c.LoadTile(map[geom.Key]palette.Color{geom.PackKey(5, 5): white})

	assert.Equal(t, white, c.EffectiveColor(5, 5))
	assert.True(t, c.EffectiveColor(6, 5).IsNone())

	c.SetPixel(5, 5, red)
	assert.Equal(t, red, c.EffectiveColor(5, 5))
	assert.Equal(t, white, c.TilePixel(5, 5))

	c.DeletePixel(5, 5)
	assert.Equal(t, white, c.EffectiveColor(5, 5))
	assert.True(t, c.UserPixel(5, 5).IsNone())
}

func TestLoadTileIsAdditive(t *testing.T) {
	c := NewCanvas()
	c.LoadTile(map[geom.Key]palette.Color{geom.PackKey(0, 0): red})
	c.LoadTile(map[geom.Key]palette.Color{geom.PackKey(1, 0): white})
	assert.Equal(t, 2, c.TileLen())

	c.ClearTile()
	assert.Equal(t, 0, c.TileLen())
}

func TestClearUserKeepsTile(t *testing.T) {
	c := NewCanvas()
	c.LoadTile(map[geom.Key]palette.Color{geom.PackKey(0, 0): white})
	c.SetPixel(0, 0, red)
	c.SetPixel(1, 1, red)

	c.ClearUser()
	assert.Equal(t, 0, c.UserLen())
	assert.Equal(t, white, c.EffectiveColor(0, 0))
}

func TestOnChangeRunsOutsideLock(t *testing.T) {
	c := NewCanvas()
	var got []Change
	c.OnChange(func(ch Change) {
		// reading back would deadlock if the lock were still held
		_ = c.EffectiveColor(ch.Point.X, ch.Point.Y)
		got = append(got, ch)
	})

	c.SetPixel(2, 3, red)
	c.DeletePixel(2, 3)
	c.ClearUser()

	require.Len(t, got, 3)
	assert.Equal(t, Change{Kind: PixelChanged, Point: geom.Pt(2, 3), Color: red}, got[0])
	assert.True(t, got[1].Color.IsNone())
	assert.Equal(t, UserCleared, got[2].Kind)
}

func TestBounds(t *testing.T) {
	c := NewCanvas()
	assert.False(t, c.Bounds().Valid)

	c.SetPixel(-2, 4, red)
	c.SetPixel(3, -1, red)
	c.SetPixel(0, 0, red)
	b := c.Bounds()
	assert.Equal(t, geom.Pt(-2, -1), b.Min)
	assert.Equal(t, geom.Pt(3, 4), b.Max)
	assert.Equal(t, 6, b.Width())
	assert.Equal(t, 6, b.Height())

	c.DeletePixel(3, -1)
	b = c.Bounds()
	assert.Equal(t, geom.Pt(-2, 0), b.Min)
	assert.Equal(t, geom.Pt(0, 4), b.Max)

	c.ClearUser()
	assert.False(t, c.Bounds().Valid)
}

func TestEntriesOrderAndFormat(t *testing.T) {
	c := NewCanvas()
	c.SetPixel(3, 1, red)
	c.SetPixel(-1, 1, black)
	c.SetPixel(7, -2, white)

	assert.Equal(t, []Entry{
		{"7,-2", "rgb(255, 255, 255)"},
		{"-1,1", "rgb(0, 0, 0)"},
		{"3,1", "rgb(237, 28, 36)"},
	}, c.Entries())
}

func TestSaveFormat(t *testing.T) {
	c := NewCanvas()
	c.SetPixel(1, 2, red)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, c))
	assert.JSONEq(t,
		`{"userPixelGrid":{"type":"map","value":[["1,2","rgb(237, 28, 36)"]]}}`,
		buf.String())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	src := NewCanvas()
	src.SetPixel(-100, 50, red)
	src.SetPixel(0, 0, black)
	src.SetPixel(1<<20, -(1 << 20), white)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, src))

	dst := NewCanvas()
	dst.SetPixel(9, 9, red)
	require.NoError(t, Load(&buf, dst))

	assert.Equal(t, src.Entries(), dst.Entries())
	assert.True(t, dst.UserPixel(9, 9).IsNone())
}

func TestLoadSkipsMalformedEntries(t *testing.T) {
	doc := `{"userPixelGrid":{"type":"map","value":[
		["1,1","rgb(1, 2, 3)"],
		["bad","rgb(1, 2, 3)"],
		["2,2","blue"],
		["3,3","rgb(300, 0, 0)"]
	]}}`
	c := NewCanvas()
	require.NoError(t, Load(strings.NewReader(doc), c))
	assert.Equal(t, 1, c.UserLen())
	assert.Equal(t, palette.RGB(1, 2, 3), c.UserPixel(1, 1))
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	c := NewCanvas()
	c.SetPixel(0, 0, red)

	for _, doc := range []string{`{`, `{"userPixelGrid":{"type":"set","value":[]}}`} {
		err := Load(strings.NewReader(doc), c)
		assert.Error(t, err, doc)
	}
	assert.Equal(t, red, c.UserPixel(0, 0))
}

func TestSaveFileLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "board.json")

	src := NewCanvas()
	src.SetPixel(4, 4, red)
	require.NoError(t, SaveFile(path, src))

	dst := NewCanvas()
	require.NoError(t, LoadFile(path, dst))
	assert.Equal(t, red, dst.UserPixel(4, 4))

	files, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, files, 1, "temp file left behind")

	err = LoadFile(filepath.Join(t.TempDir(), "missing.json"), dst)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestSessionStampsIncreasingSeq(t *testing.T) {
	s := NewSession()
	require.NotEmpty(t, s.ID())

	op1 := s.Stamp(Op{Type: OpSetPixel})
	op2 := s.Stamp(Op{Type: OpSetPixel})
	assert.Equal(t, uint64(1), op1.Seq)
	assert.Equal(t, uint64(2), op2.Seq)
	assert.Equal(t, s.ID(), op1.Session)

	assert.NotEqual(t, s.ID(), NewSession().ID())
}

func TestOpFromChangeAndApply(t *testing.T) {
	src := NewCanvas()
	dst := NewCanvas()
	src.OnChange(func(ch Change) {
		if op, ok := OpFromChange(ch); ok {
			op.Apply(dst)
		}
	})

	src.SetPixel(1, 1, red)
	src.SetPixel(2, 2, black)
	src.DeletePixel(1, 1)
	assert.Equal(t, src.Entries(), dst.Entries())

	src.ClearUser()
	assert.Equal(t, 0, dst.UserLen())

	_, ok := OpFromChange(Change{Kind: TileLoaded})
	assert.False(t, ok)
}

func TestCanvasConcurrentAccess(t *testing.T) {
	c := NewCanvas()
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.SetPixel(i, w, red)
				_ = c.EffectiveColor(i, w)
				_ = c.Bounds()
			}
		}(w)
	}
	wg.Wait()
	assert.Equal(t, 800, c.UserLen())
}

func TestRegion(t *testing.T) {
	c := NewCanvas()
	c.SetPixel(10, 20, red)
	c.LoadTile(map[geom.Key]palette.Color{geom.PackKey(11, 21): white})

	user, tile := c.Region(geom.Pt(10, 20), 2, 2)
	require.Len(t, user, 4)
	assert.Equal(t, red, user[0])
	assert.True(t, user[3].IsNone())
	assert.Equal(t, white, tile[3])

	user, tile = c.Region(geom.Pt(0, 0), 0, 5)
	assert.Nil(t, user)
	assert.Nil(t, tile)
}

func TestAutosaverDebounces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto.json")
	c := NewCanvas()
	saves := make(chan int, 8)
	a := NewAutosaver(c, path, 100*time.Millisecond, func(n int) { saves <- n })
	c.OnChange(a.Observe)

	for i := 0; i < 50; i++ {
		c.SetPixel(i, 0, red)
	}

	select {
	case n := <-saves:
		assert.Equal(t, 50, n)
	case <-time.After(2 * time.Second):
		t.Fatal("autosave did not run")
	}
	// one burst, one write
	select {
	case n := <-saves:
		t.Fatalf("unexpected second save of %d pixels", n)
	case <-time.After(300 * time.Millisecond):
	}

	dst := NewCanvas()
	require.NoError(t, LoadFile(path, dst))
	assert.Equal(t, 50, dst.UserLen())
}

func TestAutosaverIgnoresTilesAndHonoursDisable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auto.json")
	c := NewCanvas()
	a := NewAutosaver(c, path, time.Millisecond, nil)
	c.OnChange(a.Observe)

	c.LoadTile(map[geom.Key]palette.Color{geom.PackKey(0, 0): red})
	require.NoError(t, a.Flush())
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "tile load must not be saved")

	a.SetEnabled(false)
	c.SetPixel(1, 1, red)
	time.Sleep(20 * time.Millisecond)
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "disabled autosaver wrote")

	// the pending change is still written on an explicit flush
	require.NoError(t, a.Flush())
	dst := NewCanvas()
	require.NoError(t, LoadFile(path, dst))
	assert.Equal(t, 1, dst.UserLen())
}
