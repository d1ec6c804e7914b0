package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable holding a config path.
const EnvVar = "PIXELBOARD_CONFIG"

// Format is a config file syntax.
type Format int

const (
	TOML Format = iota
	YAML
)

// FormatOf picks the syntax from a file extension. Anything that is not
// .yaml or .yml is TOML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return TOML
}

// Parse reads a config on top of the defaults, so missing keys keep
// their default values.
func Parse(r io.Reader, format Format) (*Config, error) {
	cfg := New()
	switch format {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && err != io.EOF {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	default:
		md, err := toml.NewDecoder(r).Decode(cfg)
		if err != nil {
			return nil, fmt.Errorf("parse toml config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse toml config: unknown keys %v", undecoded)
		}
	}
	return cfg, nil
}

// Encode writes cfg in the given syntax.
func Encode(w io.Writer, cfg *Config, format Format) error {
	if format == YAML {
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(cfg)
	}
	return toml.NewEncoder(w).Encode(cfg)
}

// String renders the config as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := Encode(&buf, c, TOML); err != nil {
		return err.Error()
	}
	return buf.String()
}

// Loader handles locating and loading the configuration.
type Loader struct {
	OverridePath string // from the -config flag
}

// NewLoader creates a new Loader.
func NewLoader(overridePath string) *Loader {
	return &Loader{OverridePath: overridePath}
}

// Load reads the first config file found. With no file the defaults are
// returned.
func (l *Loader) Load() (*Config, string, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), "", nil
	}
	cfg, err := LoadFile(path)
	return cfg, path, err
}

// LoadFile parses the config file at path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg, err := Parse(f, FormatOf(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// GetConfigPath returns the path to the configuration file, or the empty
// string if none exists. An explicit override that does not exist is
// still returned so the caller reports it.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		return l.OverridePath
	}

	if env := os.Getenv(EnvVar); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env
		}
	}

	wd, _ := os.Getwd()
	for _, name := range []string{"pixelboard.toml", "pixelboard.yaml"} {
		localPath := filepath.Join(wd, name)
		if _, err := os.Stat(localPath); err == nil {
			return localPath
		}
	}

	home, _ := os.UserHomeDir()
	for _, name := range []string{"config.toml", "config.yaml"} {
		xdgPath := filepath.Join(home, ".config", "pixelboard", name)
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	return ""
}
