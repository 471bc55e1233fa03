package main

import (
	"time"

	"chargehud/internal/zone"
)

// Cue is a single synthesized tone request for the audio worker.
type Cue struct {
	FrequencyHz float64
	Duration    time.Duration
}

// Fixed cue table.
var (
	releaseCue   = Cue{FrequencyHz: 600, Duration: 100 * time.Millisecond}
	thresholdCue = Cue{FrequencyHz: 350, Duration: 80 * time.Millisecond}

	zoneCues = map[zone.Zone]Cue{
		zone.Tap:   {FrequencyHz: 220, Duration: 40 * time.Millisecond},
		zone.Small: {FrequencyHz: 260, Duration: 40 * time.Millisecond},
		zone.Mid:   {FrequencyHz: 300, Duration: 40 * time.Millisecond},
		zone.Large: {FrequencyHz: 340, Duration: 40 * time.Millisecond},
		zone.Full:  {FrequencyHz: 420, Duration: 60 * time.Millisecond},
	}
)

// cueForZone returns the transition cue for z. zone.None has no cue.
func cueForZone(z zone.Zone) (Cue, bool) {
	c, ok := zoneCues[z]
	return c, ok
}
