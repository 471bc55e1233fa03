package main

import "testing"

func TestHudControl_Toggles(t *testing.T) {
	h := NewHudControl(true, false)

	var seen []OverlayEvent
	h.SetObserver(func(ev OverlayEvent) { seen = append(seen, ev) })

	if !h.ToggleMute() || !h.Muted() {
		t.Fatalf("first ToggleMute should mute")
	}
	if h.ToggleMute() || h.Muted() {
		t.Fatalf("second ToggleMute should unmute")
	}
	if h.ToggleVisibility() || h.Visible() {
		t.Fatalf("ToggleVisibility should hide")
	}

	if len(seen) != 3 {
		t.Fatalf("observer saw %d events, want 3", len(seen))
	}
	if m := seen[1].(MuteChanged); m.Muted {
		t.Fatalf("second event = %+v, want unmuted", m)
	}
	if v := seen[2].(VisibilityChanged); v.Visible {
		t.Fatalf("third event = %+v, want hidden", v)
	}
}

func TestHudControl_NoObserver(t *testing.T) {
	h := NewHudControl(false, true)
	if h.Visible() || !h.Muted() {
		t.Fatalf("initial state not applied")
	}
	h.ToggleVisibility()
	if !h.Visible() {
		t.Fatalf("ToggleVisibility without observer failed")
	}
}
