package router

import (
	"encoding/json"
	"fmt"
	"time"
)

// Envelope is one decoded unit of stream data. It is constructed on frame
// arrival, consumed synchronously by Dispatch, then discarded.
type Envelope struct {
	Type       string
	Payload    json.RawMessage
	ReceivedAt time.Time
}

// frameWire is the frame body shape. A nested "data" field, when present,
// carries the effective payload.
type frameWire struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Decode parses a raw frame body into an Envelope. When the body has a
// nested "data" field that value becomes the payload; otherwise the whole
// body does.
func Decode(body []byte, receivedAt time.Time) (Envelope, error) {
	var wire frameWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return Envelope{}, fmt.Errorf("decode frame: %w", err)
	}
	if wire.Type == "" {
		return Envelope{}, fmt.Errorf("decode frame: missing type")
	}

	payload := wire.Data
	if len(payload) == 0 || string(payload) == "null" {
		payload = body
	}

	return Envelope{
		Type:       wire.Type,
		Payload:    payload,
		ReceivedAt: receivedAt,
	}, nil
}
