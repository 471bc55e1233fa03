package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"chargehud/internal/zone"
)

// Trigger identifies which bound input started (or ends) a hold.
type Trigger int

const (
	TriggerNone Trigger = iota
	TriggerKeyboard
	TriggerMouse
	TriggerGamepad
)

// String returns the wire name used in hold-start/hold-end payloads.
func (t Trigger) String() string {
	switch t {
	case TriggerKeyboard:
		return "key"
	case TriggerMouse:
		return "mouse:left"
	case TriggerGamepad:
		return "gamepad:south"
	default:
		return "none"
	}
}

// parseTrigger accepts both the wire names and the short config names.
func parseTrigger(s string) (Trigger, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "key", "keyboard", "space":
		return TriggerKeyboard, nil
	case "mouse", "mouse:left":
		return TriggerMouse, nil
	case "gamepad", "gamepad:south":
		return TriggerGamepad, nil
	default:
		return TriggerNone, fmt.Errorf("unknown trigger: %q (must be keyboard, mouse, or gamepad)", s)
	}
}

// ============================================================================
// Overlay events
// ============================================================================
// Events produced by hold transitions and HUD toggles. They are converted to
// the WebSocket wire format in overlay_ws.go.
// ============================================================================

// OverlayEvent is a marker interface for events delivered to the overlay.
type OverlayEvent interface {
	overlayMarker()
}

// HoldStarted is emitted once when a hold begins.
type HoldStarted struct {
	Trigger Trigger
	HoldID  uuid.UUID
	At      time.Time
}

func (HoldStarted) overlayMarker() {}

// HoldEnded is emitted once when a hold ends, immediately before FrameUpdate.
type HoldEnded struct {
	Trigger Trigger
	HoldID  uuid.UUID
	At      time.Time
}

func (HoldEnded) overlayMarker() {}

// FrameProgress reports a newly reached (floored) frame during a hold.
type FrameProgress struct {
	Frame int
	At    time.Time
}

func (FrameProgress) overlayMarker() {}

// FrameUpdate is the terminal, rounded measurement of a hold.
type FrameUpdate struct {
	Frame int
	At    time.Time
}

func (FrameUpdate) overlayMarker() {}

// MuteChanged is emitted whenever the mute toggle flips.
type MuteChanged struct {
	Muted bool
	At    time.Time
}

func (MuteChanged) overlayMarker() {}

// VisibilityChanged is emitted whenever the HUD visibility toggle flips.
type VisibilityChanged struct {
	Visible bool
	At      time.Time
}

func (VisibilityChanged) overlayMarker() {}

// Effects is the output of a hold transition: overlay events to emit and cues
// to queue, both in the order they must be delivered.
type Effects struct {
	Events []OverlayEvent
	Cues   []Cue
}

func (fx Effects) empty() bool {
	return len(fx.Events) == 0 && len(fx.Cues) == 0
}

// ============================================================================
// Hold state
// ============================================================================

// HoldState is the single shared record of the active hold.
//
// All fields are guarded by mu. The transition methods (press, release,
// sample) expect the caller to hold mu and perform no I/O; they only return
// the Effects the caller should dispatch. Press/Release/Sample are the
// self-locking variants.
type HoldState struct {
	mu sync.Mutex

	holding bool
	start   time.Time // zero when not holding

	// lastFrame is the highest frame already reported this hold, -1 when none.
	lastFrame int
	lastZone  zone.Zone

	playedThresholdCue bool

	trigger Trigger
	id      uuid.UUID

	newID func() uuid.UUID
}

// NewHoldState returns an idle hold state.
func NewHoldState() *HoldState {
	return &HoldState{
		lastFrame: -1,
		lastZone:  zone.None,
		newID:     uuid.New,
	}
}

// HoldSnapshot is a consistent copy of HoldState for status reporting.
type HoldSnapshot struct {
	Holding bool
	Trigger Trigger
	HoldID  uuid.UUID
	Start   time.Time
	Frame   int // last reported frame, -1 if none
	Zone    zone.Zone
}

// Snapshot returns a copy of the current state.
func (h *HoldState) Snapshot() HoldSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return HoldSnapshot{
		Holding: h.holding,
		Trigger: h.trigger,
		HoldID:  h.id,
		Start:   h.start,
		Frame:   h.lastFrame,
		Zone:    h.lastZone,
	}
}

// Press is the self-locking variant of press.
func (h *HoldState) Press(t Trigger, now time.Time) Effects {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.press(t, now)
}

// Release is the self-locking variant of release.
func (h *HoldState) Release(t Trigger, now time.Time, muted bool) Effects {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.release(t, now, muted)
}

// Sample is the self-locking variant of sample.
func (h *HoldState) Sample(now time.Time, muted bool) Effects {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sample(now, muted)
}

// press starts a hold. A press while already holding is ignored.
// Caller must hold h.mu.
func (h *HoldState) press(t Trigger, now time.Time) Effects {
	if h.holding {
		return Effects{}
	}

	h.holding = true
	h.start = now
	h.lastFrame = -1
	h.lastZone = zone.None
	h.playedThresholdCue = false
	h.trigger = t
	h.id = h.newID()

	return Effects{
		Events: []OverlayEvent{HoldStarted{Trigger: t, HoldID: h.id, At: now}},
	}
}

// release ends the hold started by t and reports the rounded frame count.
// A release while idle, or from a trigger other than the one holding, is ignored.
// Caller must hold h.mu.
func (h *HoldState) release(t Trigger, now time.Time, muted bool) Effects {
	if !h.holding || t != h.trigger {
		return Effects{}
	}

	frame := framesRounded(now.Sub(h.start))

	fx := Effects{
		Events: []OverlayEvent{
			HoldEnded{Trigger: h.trigger, HoldID: h.id, At: now},
			FrameUpdate{Frame: frame, At: now},
		},
	}
	if !muted {
		fx.Cues = append(fx.Cues, releaseCue)
	}

	h.holding = false
	h.start = time.Time{}
	h.lastFrame = -1
	h.lastZone = zone.None
	h.trigger = TriggerNone

	return fx
}

// sample derives the live frame from elapsed time and reports anything new.
// Mute suppresses cues only; lastZone and playedThresholdCue are tracked
// regardless so unmuting mid-hold never replays a missed cue.
// Caller must hold h.mu.
func (h *HoldState) sample(now time.Time, muted bool) Effects {
	if !h.holding {
		return Effects{}
	}

	// Frames only move forward; lastFrame starts at -1.
	frame := framesFloored(now.Sub(h.start))
	if frame <= h.lastFrame {
		return Effects{}
	}
	h.lastFrame = frame

	fx := Effects{
		Events: []OverlayEvent{FrameProgress{Frame: frame, At: now}},
	}

	z := zone.Of(frame)
	if z != h.lastZone {
		if c, ok := cueForZone(z); ok && !muted {
			fx.Cues = append(fx.Cues, c)
		}
		h.lastZone = z
	}

	if frame >= thresholdFrame && !h.playedThresholdCue {
		if !muted {
			fx.Cues = append(fx.Cues, thresholdCue)
		}
		h.playedThresholdCue = true
	}

	return fx
}

// framesFloored is the number of whole frames fully elapsed.
// A negative elapsed time yields -1, which sample treats as "nothing to report".
func framesFloored(elapsed time.Duration) int {
	if elapsed < 0 {
		return -1
	}
	return int(elapsed * framesPerSecond / time.Second)
}

// framesRounded is the nearest frame boundary to elapsed, halves rounding up.
func framesRounded(elapsed time.Duration) int {
	if elapsed < 0 {
		return 0
	}
	return int((elapsed*framesPerSecond + time.Second/2) / time.Second)
}
