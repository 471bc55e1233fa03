package main

import (
	"context"
	"log/slog"
	"sync"
)

// ============================================================================
// Audio Dispatch Worker
// ============================================================================
// A single goroutine owns the tone player. Producers (listeners, sampler)
// enqueue cues without blocking; the worker plays them strictly in arrival
// order. Playback itself is asynchronous, so a long tone never delays the
// next dequeue.
// ============================================================================

// TonePlayer starts playback of one cue. Play must not block for the
// duration of the tone.
type TonePlayer interface {
	Play(c Cue) error
}

// AudioWorker is an unbounded multi-producer, single-consumer cue queue.
type AudioWorker struct {
	player TonePlayer
	logger *slog.Logger

	mu    sync.Mutex
	queue []Cue

	// wake has capacity 1; a pending signal means "queue may be non-empty".
	wake chan struct{}
}

// NewAudioWorker constructs a worker. Call Run to start consuming.
func NewAudioWorker(player TonePlayer, logger *slog.Logger) *AudioWorker {
	return &AudioWorker{
		player: player,
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
}

// Enqueue appends c to the queue. It never blocks.
func (w *AudioWorker) Enqueue(c Cue) {
	w.mu.Lock()
	w.queue = append(w.queue, c)
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of cues waiting to be played.
func (w *AudioWorker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

func (w *AudioWorker) pop() (Cue, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return Cue{}, false
	}
	c := w.queue[0]
	w.queue[0] = Cue{}
	w.queue = w.queue[1:]
	return c, true
}

// Run consumes cues until ctx is canceled. Cues still queued at cancellation are dropped.
func (w *AudioWorker) Run(ctx context.Context) {
	w.logger.Debug("audio worker starting")

	for {
		for {
			if ctx.Err() != nil {
				w.logger.Debug("audio worker stopping (context canceled)")
				return
			}
			c, ok := w.pop()
			if !ok {
				break
			}
			if err := w.player.Play(c); err != nil {
				// Best-effort: a failed cue is dropped, timing state is unaffected.
				w.logger.Warn("cue playback failed", "error", err, "freq_hz", c.FrequencyHz, "duration", c.Duration)
			}
		}

		select {
		case <-ctx.Done():
			w.logger.Debug("audio worker stopping (context canceled)")
			return
		case <-w.wake:
		}
	}
}

// silentPlayer is used when audio output is disabled in config.
type silentPlayer struct {
	logger *slog.Logger
}

func (p silentPlayer) Play(c Cue) error {
	p.logger.Debug("cue (audio disabled)", "freq_hz", c.FrequencyHz, "duration", c.Duration)
	return nil
}
