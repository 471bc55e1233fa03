package main

import (
	"context"
	"log/slog"
	"os"
)

// Listener binds one input device to one trigger.
//
// All three listeners share the same press/release protocol (Engine.Press /
// Engine.Release); they differ only in which RawInput they accept.
type Listener struct {
	Trigger Trigger
	Device  string
	Code    uint16
}

// newListeners builds the keyboard, mouse and gamepad listeners from config.
// Listeners with an empty device path are omitted.
func newListeners(cfg InputConfig) []Listener {
	all := []Listener{
		{Trigger: TriggerKeyboard, Device: cfg.KeyboardDevice, Code: cfg.KeyboardCode},
		{Trigger: TriggerMouse, Device: cfg.MouseDevice, Code: cfg.MouseCode},
		{Trigger: TriggerGamepad, Device: cfg.GamepadDevice, Code: cfg.GamepadCode},
	}
	var out []Listener
	for _, l := range all {
		if l.Device != "" {
			out = append(out, l)
		}
	}
	return out
}

// bind reports whether raw is this listener's trigger, and if so whether it is a press.
func (l Listener) bind(raw RawInput) (press bool, ok bool) {
	switch l.Trigger {
	case TriggerKeyboard:
		switch r := raw.(type) {
		case KeyPress:
			return true, r.Code == l.Code
		case KeyRelease:
			return false, r.Code == l.Code
		}
	case TriggerMouse:
		switch r := raw.(type) {
		case ButtonPress:
			return true, r.Code == l.Code
		case ButtonRelease:
			return false, r.Code == l.Code
		}
	case TriggerGamepad:
		switch r := raw.(type) {
		case GamepadButtonPressed:
			return true, r.Code == l.Code
		case GamepadButtonReleased:
			return false, r.Code == l.Code
		}
	}
	return false, false
}

// handle applies one raw input to the engine. Unbound inputs are ignored.
func (l Listener) handle(engine *Engine, raw RawInput) {
	press, ok := l.bind(raw)
	if !ok {
		return
	}
	if press {
		engine.Press(l.Trigger)
	} else {
		engine.Release(l.Trigger)
	}
}

// runListener opens the listener's device and feeds it to the engine until
// ctx is canceled. Failures are logged and end only this listener.
func runListener(ctx context.Context, l Listener, engine *Engine, logger *slog.Logger) {
	logger = logger.With("trigger", l.Trigger, "device", l.Device)

	f, err := os.Open(l.Device)
	if err != nil {
		logger.Error("failed to open input device", "error", err, "tip", "run as root or add user to 'input' group")
		return
	}
	defer f.Close()

	logger.Info("listener started", "code", l.Code)

	err = readDeviceEvents(ctx, f, func(ev inputEvent) {
		raw, ok := translateInputEvent(ev)
		if !ok {
			return
		}
		l.handle(engine, raw)
	})
	if err != nil {
		logger.Error("listener stopped", "error", err)
		return
	}
	logger.Debug("listener stopping (context canceled)")
}
