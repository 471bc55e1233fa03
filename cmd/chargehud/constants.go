package main

import "time"

// Linux input event types and codes (from <linux/input-event-codes.h>)
const (
	EV_KEY = 0x01

	KEY_SPACE = 57
	BTN_LEFT  = 0x110
	BTN_SOUTH = 0x130
)

// Input event value constants
const (
	evValueRelease = 0
	evValuePress   = 1
	evValueRepeat  = 2
)

// Frame timing
const (
	framesPerSecond = 60

	// frameDuration is for display only. Frame math in hold.go works in
	// integer nanoseconds against framesPerSecond.
	frameDuration = time.Second / framesPerSecond

	// thresholdFrame is the first frame at which the near-max warning cue fires.
	thresholdFrame = 30
)

// Daemon defaults
const (
	defaultPollHz     = 240 // sampling loop rate, 4x the frame unit
	defaultSampleRate = 44100
	defaultVolume     = 0.6

	defaultIPCSocket  = "/tmp/chargehud.sock"
	defaultListenAddr = "127.0.0.1:7878"

	// Empty disables the keyboard listener until a /dev/input/by-id path is set.
	defaultKeyboardDevice = ""
)
