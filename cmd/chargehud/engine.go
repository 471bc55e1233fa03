package main

import (
	"log/slog"
	"sync"
	"time"

	"chargehud/internal/control"
	"chargehud/internal/zone"
)

// Clock provides the current time. Tests inject a manual clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// CueQueue is the producer side of the audio worker.
type CueQueue interface {
	Enqueue(c Cue)
}

// OverlaySink receives overlay events. Publish must not block; delivery is best-effort.
type OverlaySink interface {
	Publish(ev OverlayEvent)
}

// overlaySinkFunc adapts a function to OverlaySink.
type overlaySinkFunc func(OverlayEvent)

func (f overlaySinkFunc) Publish(ev OverlayEvent) { f(ev) }

// Engine runs the hold protocol against the shared HoldState and dispatches
// the resulting events and cues.
//
// Locking: a transition runs under the hold lock, then the engine takes
// dispatchMu before releasing the hold lock. Dispatch order therefore equals
// transition order (progress frames stay monotonic and hud-update is the last
// event of a hold) while no event or audio call runs under the hold lock.
type Engine struct {
	hold  *HoldState
	hud   *HudControl
	cues  CueQueue
	sink  OverlaySink
	clock Clock

	logger *slog.Logger

	dispatchMu sync.Mutex
}

// NewEngine wires the engine and registers it as the HUD toggle observer.
func NewEngine(hold *HoldState, hud *HudControl, cues CueQueue, sink OverlaySink, clock Clock, logger *slog.Logger) *Engine {
	if clock == nil {
		clock = systemClock{}
	}
	e := &Engine{
		hold:   hold,
		hud:    hud,
		cues:   cues,
		sink:   sink,
		clock:  clock,
		logger: logger,
	}
	hud.SetObserver(e.publishToggle)
	return e
}

// Press starts a hold for t. It reports whether a new hold began.
func (e *Engine) Press(t Trigger) bool {
	fx := e.transition(func(now time.Time, _ bool) Effects {
		return e.hold.press(t, now)
	})
	if fx.empty() {
		return false
	}
	e.logger.Debug("hold started", "trigger", t)
	return true
}

// Release ends the hold started by t. It reports whether a hold ended.
func (e *Engine) Release(t Trigger) bool {
	fx := e.transition(func(now time.Time, muted bool) Effects {
		return e.hold.release(t, now, muted)
	})
	if fx.empty() {
		return false
	}
	for _, ev := range fx.Events {
		if u, ok := ev.(FrameUpdate); ok {
			e.logger.Info("hold released", "trigger", t, "frame", u.Frame, "zone", zone.Of(u.Frame))
		}
	}
	return true
}

// Tick samples the active hold once.
func (e *Engine) Tick() {
	e.transition(func(now time.Time, muted bool) Effects {
		return e.hold.sample(now, muted)
	})
}

// transition applies fn under the hold lock and dispatches its effects in order.
func (e *Engine) transition(fn func(now time.Time, muted bool) Effects) Effects {
	// Read outside the hold lock; a toggle racing this call applies from the next tick.
	muted := e.hud.Muted()

	e.hold.mu.Lock()
	fx := fn(e.clock.Now(), muted)
	if fx.empty() {
		e.hold.mu.Unlock()
		return fx
	}
	e.dispatchMu.Lock()
	e.hold.mu.Unlock()

	e.dispatch(fx)
	e.dispatchMu.Unlock()
	return fx
}

// dispatch delivers events then cues. Caller must hold dispatchMu.
func (e *Engine) dispatch(fx Effects) {
	if e.sink != nil {
		for _, ev := range fx.Events {
			e.sink.Publish(ev)
		}
	}
	if e.cues != nil {
		for _, c := range fx.Cues {
			e.cues.Enqueue(c)
		}
	}
}

func (e *Engine) publishToggle(ev OverlayEvent) {
	e.dispatchMu.Lock()
	defer e.dispatchMu.Unlock()
	if e.sink != nil {
		e.sink.Publish(ev)
	}
	switch ev := ev.(type) {
	case MuteChanged:
		e.logger.Info("mute toggled", "muted", ev.Muted)
	case VisibilityChanged:
		e.logger.Info("visibility toggled", "visible", ev.Visible)
	}
}

// ToggleMute flips mute and returns the new state.
func (e *Engine) ToggleMute() bool { return e.hud.ToggleMute() }

// ToggleVisibility flips HUD visibility and returns the new state.
func (e *Engine) ToggleVisibility() bool { return e.hud.ToggleVisibility() }

// Status returns the current engine status.
func (e *Engine) Status() control.Status {
	snap := e.hold.Snapshot()
	st := control.Status{
		Visible: e.hud.Visible(),
		Muted:   e.hud.Muted(),
		Holding: snap.Holding,
		Frame:   snap.Frame,
		Zone:    snap.Zone.String(),
	}
	if snap.Holding {
		st.Trigger = snap.Trigger.String()
		st.HoldID = snap.HoldID.String()
	}
	if st.Frame < 0 {
		st.Frame = 0
	}
	return st
}
