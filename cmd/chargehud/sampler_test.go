package main

import (
	"context"
	"testing"
	"time"
)

func TestFrameDuration(t *testing.T) {
	if got := frameDuration * framesPerSecond; got > time.Second || time.Second-got >= framesPerSecond {
		t.Fatalf("frameDuration*%d = %v, want ~1s", framesPerSecond, got)
	}
}

func TestRunSampler_TicksUntilCanceled(t *testing.T) {
	f := newEngineFixture(t)
	f.engine.Press(TriggerKeyboard)
	f.clock.Set(atFrames(3, 0))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		runSampler(ctx, f.engine, 1000, discardLogger())
	}()

	waitUntil(t, time.Second, func() bool { return f.engine.Status().Frame == 3 }, "sampler did not tick")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("runSampler did not stop on cancel")
	}

	n := len(f.sink.Events())
	f.clock.Set(atFrames(5, 0))
	time.Sleep(20 * time.Millisecond)
	if got := len(f.sink.Events()); got != n {
		t.Fatalf("events after cancel: %d new", got-n)
	}
}
