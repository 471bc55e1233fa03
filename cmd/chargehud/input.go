package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// inputEvent represents a Linux input event structure
// struct input_event { struct timeval time; __u16 type; __u16 code; __s32 value; };
type inputEvent struct {
	Sec   int64
	Usec  int64
	Type  uint16
	Code  uint16
	Value int32
}

var inputEventSize = binary.Size(inputEvent{})

// decodeInputEvent parses one raw evdev record.
func decodeInputEvent(buf []byte) (inputEvent, error) {
	var ev inputEvent
	if len(buf) < inputEventSize {
		return ev, fmt.Errorf("short input event: %d bytes", len(buf))
	}
	if err := binary.Read(bytes.NewReader(buf[:inputEventSize]), binary.LittleEndian, &ev); err != nil {
		return ev, fmt.Errorf("decode input event: %w", err)
	}
	return ev, nil
}

// ============================================================================
// Raw input events
// ============================================================================
// These are the discrete signals the core consumes from the input-capture
// layer. translateInputEvent maps evdev EV_KEY records onto them using the
// kernel's code ranges: keyboard keys below BTN_MISC, mouse buttons in the
// BTN_MOUSE block, gamepad buttons in the BTN_GAMEPAD block.
// ============================================================================

// RawInput is a marker interface for decoded press/release signals.
type RawInput interface {
	rawInputMarker()
}

type KeyPress struct{ Code uint16 }
type KeyRelease struct{ Code uint16 }
type ButtonPress struct{ Code uint16 }
type ButtonRelease struct{ Code uint16 }
type GamepadButtonPressed struct{ Code uint16 }
type GamepadButtonReleased struct{ Code uint16 }

func (KeyPress) rawInputMarker()              {}
func (KeyRelease) rawInputMarker()            {}
func (ButtonPress) rawInputMarker()           {}
func (ButtonRelease) rawInputMarker()         {}
func (GamepadButtonPressed) rawInputMarker()  {}
func (GamepadButtonReleased) rawInputMarker() {}

const (
	btnMisc       = 0x100
	btnMouseFirst = 0x110
	btnMouseLast  = 0x117
	btnPadFirst   = 0x130
	btnPadLast    = 0x13e
)

// translateInputEvent converts an evdev record into a RawInput.
// Non-key events, autorepeats and codes outside the known ranges are dropped.
func translateInputEvent(ev inputEvent) (RawInput, bool) {
	if ev.Type != EV_KEY {
		return nil, false
	}

	var press bool
	switch ev.Value {
	case evValuePress:
		press = true
	case evValueRelease:
		press = false
	default:
		// evValueRepeat: a repeat while holding would be a no-op anyway.
		return nil, false
	}

	c := ev.Code
	switch {
	case c < btnMisc:
		if press {
			return KeyPress{Code: c}, true
		}
		return KeyRelease{Code: c}, true
	case c >= btnMouseFirst && c <= btnMouseLast:
		if press {
			return ButtonPress{Code: c}, true
		}
		return ButtonRelease{Code: c}, true
	case c >= btnPadFirst && c <= btnPadLast:
		if press {
			return GamepadButtonPressed{Code: c}, true
		}
		return GamepadButtonReleased{Code: c}, true
	default:
		return nil, false
	}
}
