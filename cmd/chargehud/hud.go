package main

import (
	"sync"
	"time"
)

// HudControl holds the process-wide visibility and mute toggles.
//
// Only the explicit toggle operations mutate it; the sampler and listeners
// read Muted() before queuing cues.
type HudControl struct {
	mu      sync.RWMutex
	visible bool
	muted   bool

	// onChange receives MuteChanged/VisibilityChanged after each toggle.
	// It is called outside mu.
	onChange func(OverlayEvent)
}

// NewHudControl returns a HudControl with the given initial state.
func NewHudControl(visible, muted bool) *HudControl {
	return &HudControl{
		visible: visible,
		muted:   muted,
	}
}

// SetObserver installs the toggle observer. Intended to be called once during wiring.
func (h *HudControl) SetObserver(fn func(OverlayEvent)) {
	h.mu.Lock()
	h.onChange = fn
	h.mu.Unlock()
}

// Muted reports whether audio cues are currently suppressed.
func (h *HudControl) Muted() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.muted
}

// Visible reports whether the overlay should be shown.
func (h *HudControl) Visible() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.visible
}

// ToggleMute flips the mute state, notifies the observer and returns the new value.
func (h *HudControl) ToggleMute() bool {
	h.mu.Lock()
	h.muted = !h.muted
	muted := h.muted
	notify := h.onChange
	h.mu.Unlock()

	if notify != nil {
		notify(MuteChanged{Muted: muted, At: time.Now()})
	}
	return muted
}

// ToggleVisibility flips the visibility state, notifies the observer and returns the new value.
func (h *HudControl) ToggleVisibility() bool {
	h.mu.Lock()
	h.visible = !h.visible
	visible := h.visible
	notify := h.onChange
	h.mu.Unlock()

	if notify != nil {
		notify(VisibilityChanged{Visible: visible, At: time.Now()})
	}
	return visible
}
