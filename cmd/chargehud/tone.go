package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	toneChannels = 2
	bytesPerF32  = 4

	toneAttack  = 4 * time.Millisecond
	toneRelease = 12 * time.Millisecond

	audioReadyTimeout = 3 * time.Second
	playerPollPeriod  = 10 * time.Millisecond
)

var errAudioNotReady = errors.New("audio device did not become ready")

// otoPlayer plays cues as sine tones on the default output device.
type otoPlayer struct {
	ctx        *oto.Context
	sampleRate int
	volume     float64
	logger     *slog.Logger
}

// newOtoPlayer opens the audio device and waits for it to become ready.
func newOtoPlayer(sampleRate int, volume float64, logger *slog.Logger) (*otoPlayer, error) {
	ctx, ready, err := oto.NewContext(sampleRate, toneChannels, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}

	select {
	case <-ready:
	case <-time.After(audioReadyTimeout):
		return nil, errAudioNotReady
	}

	return &otoPlayer{
		ctx:        ctx,
		sampleRate: sampleRate,
		volume:     volume,
		logger:     logger,
	}, nil
}

// Play synthesizes c and starts it on a fresh player. It returns once
// playback has started; the player is closed from its own goroutine.
func (p *otoPlayer) Play(c Cue) error {
	samples := synthTone(c, p.sampleRate)
	if len(samples) == 0 {
		return nil
	}

	player := p.ctx.NewPlayer(&toneReader{data: samples})
	player.SetVolume(p.volume)
	player.Play()
	if err := player.Err(); err != nil {
		_ = player.Close()
		return fmt.Errorf("start player: %w", err)
	}

	go func() {
		for player.IsPlaying() {
			time.Sleep(playerPollPeriod)
		}
		if err := player.Close(); err != nil {
			p.logger.Debug("close player", "error", err)
		}
	}()
	return nil
}

// toneReader streams a prerendered sample buffer.
type toneReader struct {
	data []byte
	pos  int
}

func (r *toneReader) Read(b []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(b, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// synthTone renders c as interleaved stereo float32 little-endian samples
// with a short linear attack and release to avoid clicks.
func synthTone(c Cue, sampleRate int) []byte {
	if c.Duration <= 0 || c.FrequencyHz <= 0 || sampleRate <= 0 {
		return nil
	}

	n := int(c.Duration.Seconds() * float64(sampleRate))
	if n == 0 {
		return nil
	}

	attack := int(toneAttack.Seconds() * float64(sampleRate))
	release := int(toneRelease.Seconds() * float64(sampleRate))
	if attack+release > n {
		attack = n / 4
		release = n / 4
	}

	buf := make([]byte, n*toneChannels*bytesPerF32)
	step := 2 * math.Pi * c.FrequencyHz / float64(sampleRate)
	for i := 0; i < n; i++ {
		env := 1.0
		switch {
		case attack > 0 && i < attack:
			env = float64(i) / float64(attack)
		case release > 0 && i >= n-release:
			env = float64(n-1-i) / float64(release)
		}
		putStereoF32(buf, i, env*math.Sin(step*float64(i)))
	}
	return buf
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both channels of frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	off := i * toneChannels * bytesPerF32
	for ch := 0; ch < toneChannels; ch++ {
		o := off + ch*bytesPerF32
		buf[o] = byte(v)
		buf[o+1] = byte(v >> 8)
		buf[o+2] = byte(v >> 16)
		buf[o+3] = byte(v >> 24)
	}
}
