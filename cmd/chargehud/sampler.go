package main

import (
	"context"
	"log/slog"
	"time"
)

// runSampler polls the hold state at pollHz until ctx is canceled.
//
// The poll period (about 4 ms at 240 Hz) is much finer than a frame
// (~16.7 ms), which bounds how late a frame boundary is reported.
func runSampler(ctx context.Context, engine *Engine, pollHz int, logger *slog.Logger) {
	if pollHz <= 0 {
		pollHz = defaultPollHz
	}

	ticker := time.NewTicker(time.Second / time.Duration(pollHz))
	defer ticker.Stop()

	logger.Debug("sampler starting", "poll_hz", pollHz, "frame_duration", frameDuration)

	for {
		select {
		case <-ctx.Done():
			logger.Debug("sampler stopping (context canceled)")
			return
		case <-ticker.C:
			engine.Tick()
		}
	}
}
