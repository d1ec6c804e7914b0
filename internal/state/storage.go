package state

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"PixelBoard/internal/geom"
	"PixelBoard/internal/palette"
)

const mapType = "map"

// document is the on-disk shape of a saved canvas. The user layer is
// stored as a tagged list of [key, colour] pairs.
type document struct {
	UserPixelGrid taggedMap `json:"userPixelGrid"`
}

type taggedMap struct {
	Type  string      `json:"type"`
	Value [][2]string `json:"value"`
}

// Save writes the user layer of c to w.
func Save(w io.Writer, c *Canvas) error {
	entries := c.Entries()
	doc := document{UserPixelGrid: taggedMap{Type: mapType, Value: make([][2]string, len(entries))}}
	for i, e := range entries {
		doc.UserPixelGrid.Value[i] = [2]string{e.Key, e.Color}
	}

	enc := json.NewEncoder(w)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode canvas: %w", err)
	}
	log.Printf("[STORE] Saved %d pixels", len(entries))
	return nil
}

// Decode parses a saved document into a pixel map. Entries with a bad key
// or colour are skipped; a document that is not valid JSON or not a
// tagged map is an error.
func Decode(r io.Reader) (map[geom.Key]palette.Color, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode canvas: %w", err)
	}
	if doc.UserPixelGrid.Type != mapType {
		return nil, fmt.Errorf("decode canvas: unexpected grid type %q", doc.UserPixelGrid.Type)
	}

	pixels := make(map[geom.Key]palette.Color, len(doc.UserPixelGrid.Value))
	skipped := 0
	for _, pair := range doc.UserPixelGrid.Value {
		k, err := geom.ParseKey(pair[0])
		if err != nil {
			skipped++
			continue
		}
		col, ok := palette.ParseRGB(pair[1])
		if !ok {
			skipped++
			continue
		}
		pixels[k] = col
	}
	if skipped > 0 {
		log.Printf("[STORE] Skipped %d malformed entries", skipped)
	}
	return pixels, nil
}

// Load replaces the user layer of c with the document read from r. On
// error c is left untouched.
func Load(r io.Reader, c *Canvas) error {
	pixels, err := Decode(r)
	if err != nil {
		return err
	}
	c.ReplaceUser(pixels)
	log.Printf("[STORE] Loaded %d pixels", len(pixels))
	return nil
}

// SaveFile writes c to path through a temporary file in the same
// directory so a crash never leaves a truncated save behind.
func SaveFile(path string, c *Canvas) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".pixelboard-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Save(tmp, c); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// LoadFile reads a saved canvas from path. A missing file is reported
// with an error wrapping fs.ErrNotExist.
func LoadFile(path string, c *Canvas) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open canvas: %w", err)
	}
	defer f.Close()
	if err := Load(f, c); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
