// Package overlay defines the WebSocket messages the daemon sends to HUD overlays.
//
// Every message is a JSON text frame: {"type": ..., "ts": ..., "data": {...}}.
package overlay

import (
	"encoding/json"
	"fmt"
	"time"

	"chargehud/internal/control"
)

// Message types
const (
	TypeProgress          = "hud-progress"
	TypeUpdate            = "hud-update"
	TypeHoldStart         = "hold-start"
	TypeHoldEnd           = "hold-end"
	TypeMuteChanged       = "hud-mute-changed"
	TypeVisibilityChanged = "hud-visibility-changed"
	TypeStateInit         = "state_init"
)

// FrameData is the payload of hud-progress and hud-update.
type FrameData struct {
	Frame uint32 `json:"frame"`
}

// HoldData is the payload of hold-start and hold-end.
type HoldData struct {
	Trigger string `json:"trigger"`
	HoldID  string `json:"hold_id"`
}

// MuteData is the payload of hud-mute-changed.
type MuteData struct {
	Muted bool `json:"muted"`
}

// VisibilityData is the payload of hud-visibility-changed.
type VisibilityData struct {
	Visible bool `json:"visible"`
}

// StateData is the payload of state_init, sent once to each new client.
type StateData = control.Status

// envelope is the outbound wire format.
type envelope struct {
	Type string     `json:"type"`
	Ts   *time.Time `json:"ts,omitempty"`
	Data any        `json:"data,omitempty"`
}

// Envelope is the inbound (decoding) view of a message.
type Envelope struct {
	Type string          `json:"type"`
	Ts   *time.Time      `json:"ts,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode marshals one message. A zero ts is replaced with the current time.
func Encode(typ string, ts time.Time, data any) ([]byte, error) {
	if ts.IsZero() {
		ts = time.Now()
	}
	ts = ts.UTC()
	b, err := json.Marshal(envelope{Type: typ, Ts: &ts, Data: data})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", typ, err)
	}
	return b, nil
}

// Decode parses a message envelope, leaving Data raw for the caller.
func Decode(b []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("unmarshal envelope: missing type")
	}
	return env, nil
}
