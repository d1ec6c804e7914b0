// Package tool turns pointer input into grid mutations and hover
// previews for the closed set of drawing tools.
package tool

import (
	"fmt"
	"unicode"
)

// Tool identifies the active drawing tool.
type Tool int

const (
	Pencil Tool = iota
	Brush
	Eraser
	Move
	Stamp
	Pipette
	PaintBucket
	Darken
)

var toolNames = [...]string{
	Pencil:      "pencil",
	Brush:       "brush",
	Eraser:      "eraser",
	Move:        "move",
	Stamp:       "stamp",
	Pipette:     "pipette",
	PaintBucket: "paint-bucket",
	Darken:      "darken",
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	return []Tool{Pencil, Brush, Eraser, Move, Stamp, Pipette, PaintBucket, Darken}
}

func (t Tool) Valid() bool {
	return t >= Pencil && t <= Darken
}

func (t Tool) String() string {
	if !t.Valid() {
		return fmt.Sprintf("tool(%d)", int(t))
	}
	return toolNames[t]
}

// Parse maps a tool name as used on the bridge to a Tool.
func Parse(name string) (Tool, error) {
	for i, n := range toolNames {
		if n == name {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", name)
}

var shortcuts = map[rune]Tool{
	'p': Pencil,
	'b': Brush,
	'd': Darken,
	'i': Pipette,
	'g': PaintBucket,
	' ': Move,
}

// ForShortcut returns the tool bound to a keyboard key, ignoring case.
func ForShortcut(r rune) (Tool, bool) {
	t, ok := shortcuts[unicode.ToLower(r)]
	return t, ok
}
