package tiles

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PixelBoard/internal/geom"
	"PixelBoard/internal/palette"
	"PixelBoard/internal/state"
)

// testPNG is a 3x2 image with one fully transparent and one half
// transparent pixel.
func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(0, 0, color.NRGBA{237, 28, 36, 255})
	img.SetNRGBA(1, 0, color.NRGBA{0, 0, 0, 0})
	img.SetNRGBA(2, 0, color.NRGBA{10, 20, 30, 128})
	img.SetNRGBA(0, 1, color.NRGBA{255, 255, 255, 255})
	img.SetNRGBA(1, 1, color.NRGBA{240, 30, 30, 255})
	img.SetNRGBA(2, 1, color.NRGBA{0, 0, 0, 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDecodeKeepsOnlyVisiblePixels(t *testing.T) {
	tile, err := Decode(bytes.NewReader(testPNG(t)))
	require.NoError(t, err)

	assert.Equal(t, 3, tile.Width)
	assert.Equal(t, 2, tile.Height)
	assert.Equal(t, "png", tile.Format)
	assert.Len(t, tile.Pixels, 5)

	_, ok := tile.Pixels[geom.PackKey(1, 0)]
	assert.False(t, ok)
	assert.Equal(t, palette.RGB(237, 28, 36), tile.Pixels[geom.PackKey(0, 0)])
	assert.True(t, tile.Pixels[geom.PackKey(2, 0)].Valid)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestShiftAndOrigin(t *testing.T) {
	assert.Equal(t, geom.Pt(2000, -1000), Origin(2, -1))

	shifted := Shift(map[geom.Key]palette.Color{geom.PackKey(3, 4): palette.RGB(1, 1, 1)}, Origin(1, 1))
	_, ok := shifted[geom.PackKey(1003, 1004)]
	assert.True(t, ok)
}

func TestSnap(t *testing.T) {
	pixels := map[geom.Key]palette.Color{geom.PackKey(0, 0): palette.RGB(240, 30, 30)}
	Snap(pixels)
	assert.Equal(t, palette.RGB(237, 28, 36), pixels[geom.PackKey(0, 0)])
}

func TestLoadOverHTTP(t *testing.T) {
	body := testPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	canvas := state.NewCanvas()
	canvas.SetPixel(0, 0, palette.RGB(0, 0, 0))
	l := NewLoader(canvas, Options{ClearUser: true, SnapToPalette: true})

	res, err := l.Load(context.Background(), Request{Source: srv.URL + "/tile.png", TileX: 1, TileY: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, res.Pixels)
	assert.Equal(t, 5, canvas.TileLen())
	assert.Equal(t, 0, canvas.UserLen())

	// snapped to the catalog red
	assert.Equal(t, palette.RGB(237, 28, 36), canvas.TilePixel(1001, 2001))
	assert.True(t, canvas.TilePixel(1001, 2000).IsNone())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tile.png")
	require.NoError(t, os.WriteFile(path, testPNG(t), 0o644))

	canvas := state.NewCanvas()
	canvas.SetPixel(5, 5, palette.RGB(0, 0, 0))
	l := NewLoader(canvas, Options{})

	_, err := l.Load(context.Background(), Request{Source: path})
	require.NoError(t, err)
	assert.Equal(t, palette.RGB(240, 30, 30), canvas.TilePixel(1, 1))
	assert.Equal(t, 1, canvas.UserLen(), "user layer kept")
}

func TestLoadFailureLeavesGridUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("garbage"))
	}))
	defer srv.Close()

	canvas := state.NewCanvas()
	canvas.SetPixel(0, 0, palette.RGB(0, 0, 0))
	l := NewLoader(canvas, Options{ClearUser: true})

	for _, src := range []string{srv.URL + "/missing.png", srv.URL + "/garbage.png", "gopher://x/y", ""} {
		_, err := l.Load(context.Background(), Request{Source: src})
		assert.Error(t, err, src)
	}
	assert.Equal(t, 0, canvas.TileLen())
	assert.Equal(t, 1, canvas.UserLen())
}

func TestSecondLoadWhileInFlight(t *testing.T) {
	body := testPNG(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		w.Write(body)
	}))
	defer srv.Close()

	canvas := state.NewCanvas()
	l := NewLoader(canvas, Options{})

	done := make(chan error, 1)
	require.NoError(t, l.LoadAsync(context.Background(), Request{Source: srv.URL}, func(_ Result, err error) {
		done <- err
	}))
	<-entered

	_, err := l.Load(context.Background(), Request{Source: srv.URL})
	assert.True(t, errors.Is(err, ErrLoadInFlight))
	assert.True(t, errors.Is(l.LoadAsync(context.Background(), Request{Source: srv.URL}, nil), ErrLoadInFlight))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 5, canvas.TileLen())
}

func TestLoadTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	l := NewLoader(state.NewCanvas(), Options{Timeout: 50 * time.Millisecond})
	_, err := l.Load(context.Background(), Request{Source: srv.URL})
	assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)
}

func TestBackToBackLoadAsync(t *testing.T) {
	body := testPNG(t)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write(body)
	}))
	defer srv.Close()

	l := NewLoader(state.NewCanvas(), Options{})
	done := make(chan error, 2)
	report := func(_ Result, err error) { done <- err }

	require.NoError(t, l.LoadAsync(context.Background(), Request{Source: srv.URL}, report))
	err := l.LoadAsync(context.Background(), Request{Source: srv.URL}, report)
	assert.True(t, errors.Is(err, ErrLoadInFlight), "got %v", err)

	close(release)
	require.NoError(t, <-done)
	select {
	case err := <-done:
		t.Fatalf("rejected load still ran: %v", err)
	case <-time.After(100 * time.Millisecond):
	}

	// the slot is free again once the first load finished
	require.NoError(t, l.LoadAsync(context.Background(), Request{Source: srv.URL}, report))
	require.NoError(t, <-done)
}
