// Package control defines the line-delimited JSON protocol spoken on the
// chargehud IPC socket, and a small client for it.
//
// Protocol:
//   - Client sends: {"type": "message_name", "data": {...}}
//   - Server responds: {"status": "ok", "data": {...}} or {"status": "error", "error": "msg"}
package control

import (
	"encoding/json"
	"fmt"
)

// Message is a marker interface for control requests.
type Message interface {
	controlMarker()
}

// ToggleMute flips the mute toggle.
type ToggleMute struct{}

// ToggleVisibility flips HUD visibility.
type ToggleVisibility struct{}

// GetStatus requests a status snapshot.
type GetStatus struct{}

// TriggerPress injects a synthetic press of a bound trigger.
type TriggerPress struct {
	Trigger string `json:"trigger"` // keyboard|mouse|gamepad
}

// TriggerRelease injects a synthetic release of a bound trigger.
type TriggerRelease struct {
	Trigger string `json:"trigger"`
}

func (ToggleMute) controlMarker()       {}
func (ToggleVisibility) controlMarker() {}
func (GetStatus) controlMarker()        {}
func (TriggerPress) controlMarker()     {}
func (TriggerRelease) controlMarker()   {}

// Status is the daemon state reported to control clients.
type Status struct {
	Visible bool   `json:"visible"`
	Muted   bool   `json:"muted"`
	Holding bool   `json:"holding"`
	Trigger string `json:"trigger,omitempty"`
	HoldID  string `json:"hold_id,omitempty"`
	Frame   int    `json:"frame"`
	Zone    string `json:"zone"`
}

// Response is sent back for every request line.
type Response struct {
	Status string  `json:"status"`          // "ok" or "error"
	Error  string  `json:"error,omitempty"` // error message if status == "error"
	Data   *Status `json:"data,omitempty"`
}

// Envelope wraps a message with a type discriminator for JSON marshaling.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Unmarshal decodes a JSON envelope into a concrete Message.
func Unmarshal(data []byte) (Message, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	switch env.Type {
	case "toggle_mute":
		return ToggleMute{}, nil
	case "toggle_visibility":
		return ToggleVisibility{}, nil
	case "get_status":
		return GetStatus{}, nil

	case "trigger_press":
		var m TriggerPress
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return nil, fmt.Errorf("unmarshal TriggerPress: %w", err)
		}
		return m, nil

	case "trigger_release":
		var m TriggerRelease
		if err := json.Unmarshal(env.Data, &m); err != nil {
			return nil, fmt.Errorf("unmarshal TriggerRelease: %w", err)
		}
		return m, nil

	default:
		return nil, fmt.Errorf("unknown message type: %q", env.Type)
	}
}

// Marshal encodes m into a JSON envelope with type discriminator.
func Marshal(m Message) ([]byte, error) {
	var env Envelope

	switch m := m.(type) {
	case ToggleMute:
		env.Type = "toggle_mute"
	case ToggleVisibility:
		env.Type = "toggle_visibility"
	case GetStatus:
		env.Type = "get_status"

	case TriggerPress:
		env.Type = "trigger_press"
		data, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("marshal TriggerPress: %w", err)
		}
		env.Data = data

	case TriggerRelease:
		env.Type = "trigger_release"
		data, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("marshal TriggerRelease: %w", err)
		}
		env.Data = data

	default:
		return nil, fmt.Errorf("unsupported message type: %T", m)
	}

	return json.Marshal(env)
}
