package net

import (
	"encoding/json"
	"fmt"
)

// Message types sent by the parent page to the editor.
const (
	TypeLoadTile = "editor:load:tile"
	TypeSetColor = "editor:set:color"
	TypeSetTool  = "editor:set:tool"
	TypeGetGrid  = "editor:get:grid"
	TypeClose    = "editor:close"
)

// Message types sent by the editor.
const (
	TypeReady       = "editor:ready"
	TypePixelUpdate = "editor:pixel:update"
	TypeGrid        = "editor:grid"
	TypeTileChanged = "editor:tile:changed"
	TypeSave        = "editor:save"
	TypeError       = "editor:error"
)

// Message is the envelope of every bridge frame.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage builds a message with a JSON encoded payload. A nil payload
// is omitted.
func NewMessage(msgType string, payload any) (Message, error) {
	msg := Message{Type: msgType}
	if payload == nil {
		return msg, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return msg, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	msg.Payload = raw
	return msg, nil
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", m.Type)
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("%s: %w", m.Type, err)
	}
	return nil
}

type LoadTilePayload struct {
	TileURL string `json:"tileUrl"`
	TileX   int    `json:"tileX"`
	TileY   int    `json:"tileY"`
	// PixelX and PixelY, when present, are centred in the viewport.
	PixelX *int `json:"pixelX,omitempty"`
	PixelY *int `json:"pixelY,omitempty"`
}

type SetColorPayload struct {
	Color string `json:"color"`
}

type SetToolPayload struct {
	Tool string `json:"tool"`
}

type ReadyPayload struct {
	Session string `json:"session"`
}

// PixelUpdatePayload reports one user pixel. X and Y are relative to the
// tile's top-left corner; Color is empty for an erase.
type PixelUpdatePayload struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
	TileX int    `json:"tileX"`
	TileY int    `json:"tileY"`
	Seq   uint64 `json:"seq"`
}

type GridPayload struct {
	Entries [][2]string `json:"entries"`
}

type TileChangedPayload struct {
	TileX  int `json:"tileX"`
	TileY  int `json:"tileY"`
	Pixels int `json:"pixels"`
}

type SavePayload struct {
	PixelCount int `json:"pixelCount"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
