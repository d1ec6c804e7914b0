package export

import (
	"bytes"
	"errors"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PixelBoard/internal/palette"
	"PixelBoard/internal/state"
)

func sample() *state.Canvas {
	c := state.NewCanvas()
	c.SetPixel(-1, 2, palette.RGB(0, 0, 0))
	c.SetPixel(1, 2, palette.RGB(0, 0, 0))
	c.SetPixel(1, 4, palette.RGB(237, 28, 36))
	return c
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sample(), PDFOptions{CellMM: 3, MarginMM: 5, Title: "test"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, PDF(path, sample(), PDFOptions{}))

	err := PDF(filepath.Join(t.TempDir(), "empty.pdf"), state.NewCanvas(), PDFOptions{})
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestImage(t *testing.T) {
	img, err := Image(sample())
	require.NoError(t, err)
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())

	assert.Equal(t, uint8(0xff), img.NRGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), img.NRGBAAt(1, 0).A, "gap stays transparent")
	assert.Equal(t, uint8(237), img.NRGBAAt(2, 2).R)

	_, err = Image(state.NewCanvas())
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestWritePNGScales(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, sample(), 4))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Width)
	assert.Equal(t, 12, cfg.Height)
}

func TestSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summary(&buf, sample()))
	out := buf.String()

	assert.Contains(t, out, "Pixels: 3")
	assert.Contains(t, out, "Bounds: -1,2 to 1,4 (3x3)")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.True(t, strings.HasPrefix(lines[len(lines)-2], "Black"), lines[len(lines)-2])
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "Red"), lines[len(lines)-1])
}
