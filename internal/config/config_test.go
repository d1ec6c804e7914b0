package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := New()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Editor.PixelSize)
	assert.Equal(t, 2, cfg.Editor.BrushSize)
	assert.Equal(t, "pencil", cfg.Editor.Tool)
	assert.Equal(t, 30*time.Second, cfg.Tiles.Timeout.Std())
}

func TestParseTOML(t *testing.T) {
	input := `
[bridge]
port = 9000
advertise = false

[tiles]
snap_to_palette = true
timeout = "5s"

[editor]
tool = "paint-bucket"
color = "rgb(237, 28, 36)"
`
	cfg, err := Parse(strings.NewReader(input), TOML)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9000, cfg.Bridge.Port)
	assert.False(t, cfg.Bridge.Advertise)
	assert.Equal(t, "/bridge", cfg.Bridge.Path, "unset keys keep defaults")
	assert.True(t, cfg.Tiles.SnapToPalette)
	assert.Equal(t, 5*time.Second, cfg.Tiles.Timeout.Std())
	assert.Equal(t, "paint-bucket", cfg.Editor.Tool)
}

func TestParseYAML(t *testing.T) {
	input := `
editor:
  pixel_size: 4
  brush_size: 7
storage:
  file: /tmp/board.json
  autosave: false
tiles:
  timeout: 1m
`
	cfg, err := Parse(strings.NewReader(input), YAML)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Editor.PixelSize)
	assert.Equal(t, 7, cfg.Editor.BrushSize)
	assert.Equal(t, "/tmp/board.json", cfg.Storage.File)
	assert.False(t, cfg.Storage.Autosave)
	assert.Equal(t, time.Minute, cfg.Tiles.Timeout.Std())
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("[bridge]\nprot = 1\n"), TOML)
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("bridge:\n  prot: 1\n"), YAML)
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("[tiles]\ntimeout = \"soon\"\n"), TOML)
	assert.Error(t, err)
}

func TestCircular(t *testing.T) {
	cfg := New()
	cfg.Bridge.Port = 1234
	cfg.Tiles.Timeout = Duration(90 * time.Second)
	cfg.Editor.Color = "rgb(255, 255, 255)"

	for _, format := range []Format{TOML, YAML} {
		var sb strings.Builder
		require.NoError(t, Encode(&sb, cfg, format))
		cfg2, err := Parse(strings.NewReader(sb.String()), format)
		require.NoError(t, err, sb.String())
		assert.Equal(t, cfg, cfg2)
	}
	assert.Contains(t, cfg.String(), "port = 1234")
}

func TestValidate(t *testing.T) {
	cfg := New()
	cfg.Bridge.Port = 70000
	cfg.Editor.PixelSize = 40
	cfg.Editor.Color = "rgb(1, 2, 3)"
	cfg.Editor.Tool = "lasso"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"bridge.port", "pixel_size", "editor.color", "lasso"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, YAML, FormatOf("a/b.yml"))
	assert.Equal(t, YAML, FormatOf("B.YAML"))
	assert.Equal(t, TOML, FormatOf("pixelboard.toml"))
	assert.Equal(t, TOML, FormatOf("noext"))
}

func TestLoaderOrder(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, "env.toml")
	require.NoError(t, os.WriteFile(envPath, []byte("[bridge]\nport = 7000\n"), 0o644))
	t.Setenv(EnvVar, envPath)

	cfg, path, err := NewLoader("").Load()
	require.NoError(t, err)
	assert.Equal(t, envPath, path)
	assert.Equal(t, 7000, cfg.Bridge.Port)

	override := filepath.Join(dir, "flag.yaml")
	require.NoError(t, os.WriteFile(override, []byte("bridge:\n  port: 7001\n"), 0o644))
	cfg, path, err = NewLoader(override).Load()
	require.NoError(t, err)
	assert.Equal(t, override, path)
	assert.Equal(t, 7001, cfg.Bridge.Port)

	_, _, err = NewLoader(filepath.Join(dir, "missing.toml")).Load()
	assert.Error(t, err)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelboard.toml")
	require.NoError(t, os.WriteFile(path, []byte("[editor]\npixel_size = 4\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, func(c *Config) { got <- c }) }()

	// give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("[editor]\npixel_size = 12\n"), 0o644))

	// a write can surface as truncate then fill; wait for the final content
	deadline := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case cfg := <-got:
			reloaded = cfg.Editor.PixelSize == 12
		case <-deadline:
			t.Fatal("no reload")
		}
	}

	cancel()
	assert.NoError(t, <-done)
}
