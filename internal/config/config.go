package config

import (
	"fmt"
	"strings"
	"time"

	"PixelBoard/internal/brush"
	"PixelBoard/internal/palette"
	"PixelBoard/internal/tool"
	"PixelBoard/internal/viewport"
)

// Bridge holds the websocket bridge settings.
type Bridge struct {
	Port      int    `toml:"port" yaml:"port"`
	Path      string `toml:"path" yaml:"path"`
	Advertise bool   `toml:"advertise" yaml:"advertise"`
	MaxPeers  int    `toml:"max_peers" yaml:"max_peers"`
}

// Storage holds persistence settings.
type Storage struct {
	File     string `toml:"file" yaml:"file"`
	Autosave bool   `toml:"autosave" yaml:"autosave"`
}

// Tiles holds tile loading settings.
type Tiles struct {
	SnapToPalette       bool     `toml:"snap_to_palette" yaml:"snap_to_palette"`
	ClearUserOnTileLoad bool     `toml:"clear_user_on_tile_load" yaml:"clear_user_on_tile_load"`
	Timeout             Duration `toml:"timeout" yaml:"timeout"`
}

// Editor holds the startup editor state.
type Editor struct {
	PixelSize int    `toml:"pixel_size" yaml:"pixel_size"`
	BrushSize int    `toml:"brush_size" yaml:"brush_size"`
	Color     string `toml:"color" yaml:"color"`
	Tool      string `toml:"tool" yaml:"tool"`
}

// Export holds export settings.
type Export struct {
	CellMM   float64 `toml:"cell_mm" yaml:"cell_mm"`
	PNGScale int     `toml:"png_scale" yaml:"png_scale"`
}

// Config holds the application configuration.
type Config struct {
	Bridge  Bridge  `toml:"bridge" yaml:"bridge"`
	Storage Storage `toml:"storage" yaml:"storage"`
	Tiles   Tiles   `toml:"tiles" yaml:"tiles"`
	Editor  Editor  `toml:"editor" yaml:"editor"`
	Export  Export  `toml:"export" yaml:"export"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Bridge: Bridge{
			Port:      8888,
			Path:      "/bridge",
			Advertise: true,
			MaxPeers:  8,
		},
		Storage: Storage{
			File:     "pixelboard.json",
			Autosave: true,
		},
		Tiles: Tiles{
			ClearUserOnTileLoad: true,
			Timeout:             Duration(30 * time.Second),
		},
		Editor: Editor{
			PixelSize: viewport.DefaultPixelSize,
			BrushSize: brush.DefaultDiameter,
			Color:     "rgb(0, 0, 0)",
			Tool:      tool.Pencil.String(),
		},
		Export: Export{
			CellMM:   2,
			PNGScale: 8,
		},
	}
}

// Validate reports every setting that cannot be used as given.
func (c *Config) Validate() error {
	var problems []string
	if c.Bridge.Port < 0 || c.Bridge.Port > 65535 {
		problems = append(problems, fmt.Sprintf("bridge.port %d out of range", c.Bridge.Port))
	}
	if !strings.HasPrefix(c.Bridge.Path, "/") {
		problems = append(problems, fmt.Sprintf("bridge.path %q must start with /", c.Bridge.Path))
	}
	if c.Editor.PixelSize != viewport.ClampPixelSize(c.Editor.PixelSize) {
		problems = append(problems, fmt.Sprintf("editor.pixel_size %d outside [%d, %d]",
			c.Editor.PixelSize, viewport.MinPixelSize, viewport.MaxPixelSize))
	}
	if c.Editor.BrushSize < 1 {
		problems = append(problems, fmt.Sprintf("editor.brush_size %d must be positive", c.Editor.BrushSize))
	}
	if _, ok := palette.IDOfString(c.Editor.Color); !ok {
		problems = append(problems, fmt.Sprintf("editor.color %q is not a palette colour", c.Editor.Color))
	}
	if _, err := tool.Parse(c.Editor.Tool); err != nil {
		problems = append(problems, "editor."+err.Error())
	}
	if c.Export.CellMM <= 0 {
		problems = append(problems, "export.cell_mm must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Duration is a time.Duration written as "30s" in config files.
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}
