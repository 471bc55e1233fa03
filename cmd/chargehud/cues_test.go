package main

import (
	"testing"
	"time"

	"chargehud/internal/zone"
)

func TestCueForZone(t *testing.T) {
	if _, ok := cueForZone(zone.None); ok {
		t.Fatalf("expected no cue for zone.None")
	}

	full, ok := cueForZone(zone.Full)
	if !ok {
		t.Fatalf("expected cue for zone.Full")
	}
	if full.FrequencyHz != 420 || full.Duration != 60*time.Millisecond {
		t.Errorf("unexpected full cue: %+v", full)
	}

	mid, _ := cueForZone(zone.Mid)
	if mid.FrequencyHz != 300 || mid.Duration != 40*time.Millisecond {
		t.Errorf("unexpected mid cue: %+v", mid)
	}
}
