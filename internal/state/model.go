package state

import "PixelBoard/internal/palette"

type OpType string

const (
	OpSetPixel OpType = "set_pixel"
	OpClear    OpType = "clear"
)

// Op is a user-layer mutation as sent to peers. Color is None for an
// erase.
type Op struct {
	Type    OpType        `json:"type"`
	X       int           `json:"x"`
	Y       int           `json:"y"`
	Color   palette.Color `json:"color"`
	Seq     uint64        `json:"seq"`
	Session string        `json:"session"`
}

// OpFromChange converts a canvas change to an op. Only single-pixel
// changes and clears have an op form.
func OpFromChange(ch Change) (Op, bool) {
	switch ch.Kind {
	case PixelChanged:
		return Op{Type: OpSetPixel, X: ch.Point.X, Y: ch.Point.Y, Color: ch.Color}, true
	case UserCleared:
		return Op{Type: OpClear}, true
	}
	return Op{}, false
}

// Apply replays op onto c.
func (op Op) Apply(c *Canvas) {
	switch op.Type {
	case OpSetPixel:
		c.SetPixel(op.X, op.Y, op.Color)
	case OpClear:
		c.ClearUser()
	}
}
