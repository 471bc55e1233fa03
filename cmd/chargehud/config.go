package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration for the chargehud daemon.
//
// Defaults and validation live here so the rest of the code can assume a
// well-formed config. Flags override individual fields on top of the file.
type Config struct {
	// Input devices and bound trigger codes
	Input InputConfig `yaml:"input"`

	// Frame sampling loop
	Sampler SamplerConfig `yaml:"sampler"`

	// Audio cue output
	Audio AudioConfig `yaml:"audio"`

	// Initial HUD toggles
	HUD HUDConfig `yaml:"hud"`

	// IPC control socket
	IPC IPCConfig `yaml:"ipc"`

	// HTTP server (overlay websocket + control API)
	HTTP HTTPConfig `yaml:"http"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// InputConfig selects one evdev device per trigger. An empty device disables that listener.
type InputConfig struct {
	KeyboardDevice string `yaml:"keyboard_device"`
	MouseDevice    string `yaml:"mouse_device"`
	GamepadDevice  string `yaml:"gamepad_device"`

	KeyboardCode uint16 `yaml:"keyboard_code"`
	MouseCode    uint16 `yaml:"mouse_code"`
	GamepadCode  uint16 `yaml:"gamepad_code"`
}

type SamplerConfig struct {
	PollHz int `yaml:"poll_hz"`
}

// AudioConfig controls the cue output device.
//
// When Enabled is true the device must open at startup or the daemon exits;
// set it to false for visual-only operation.
type AudioConfig struct {
	Enabled    bool    `yaml:"enabled"`
	SampleRate int     `yaml:"sample_rate"`
	Volume     float64 `yaml:"volume"`
}

type HUDConfig struct {
	StartVisible bool `yaml:"start_visible"`
	StartMuted   bool `yaml:"start_muted"`
}

type IPCConfig struct {
	SocketPath string `yaml:"socket_path"` // empty disables the IPC server
}

type HTTPConfig struct {
	ListenAddr string `yaml:"listen_addr"` // empty disables the HTTP server
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultConfig returns a fully-populated Config with defaults.
// Keep this aligned with constants.go.
func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			KeyboardDevice: defaultKeyboardDevice,
			KeyboardCode:   KEY_SPACE,
			MouseCode:      BTN_LEFT,
			GamepadCode:    BTN_SOUTH,
		},
		Sampler: SamplerConfig{
			PollHz: defaultPollHz,
		},
		Audio: AudioConfig{
			Enabled:    true,
			SampleRate: defaultSampleRate,
			Volume:     defaultVolume,
		},
		HUD: HUDConfig{
			StartVisible: true,
			StartMuted:   false,
		},
		IPC: IPCConfig{
			SocketPath: defaultIPCSocket,
		},
		HTTP: HTTPConfig{
			ListenAddr: defaultListenAddr,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfigFile reads and parses a YAML config file on top of DefaultConfig.
//
// Unknown fields are rejected (helps catch typos) via KnownFields(true).
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	return parseConfig(b)
}

func parseConfig(b []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// Empty file: defaults only.
			return cfg, nil
		}
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Only whitespace/comments are allowed after the document.
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides carries flag values to apply on top of a loaded config.
// A nil pointer means the flag was not set.
type FlagOverrides struct {
	KeyboardDevice *string
	MouseDevice    *string
	GamepadDevice  *string

	PollHz *int

	AudioEnabled *bool
	Volume       *float64

	StartMuted *bool

	IPCSocketPath *string
	ListenAddr    *string

	LogLevel *string
}

// Apply merges the overrides into cfg. If an override pointer is nil, it is ignored.
// If the pointer is non-nil, the value is applied (even if it is a “zero value”).
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.KeyboardDevice != nil {
		cfg.Input.KeyboardDevice = *o.KeyboardDevice
	}
	if o.MouseDevice != nil {
		cfg.Input.MouseDevice = *o.MouseDevice
	}
	if o.GamepadDevice != nil {
		cfg.Input.GamepadDevice = *o.GamepadDevice
	}
	if o.PollHz != nil {
		cfg.Sampler.PollHz = *o.PollHz
	}
	if o.AudioEnabled != nil {
		cfg.Audio.Enabled = *o.AudioEnabled
	}
	if o.Volume != nil {
		cfg.Audio.Volume = *o.Volume
	}
	if o.StartMuted != nil {
		cfg.HUD.StartMuted = *o.StartMuted
	}
	if o.IPCSocketPath != nil {
		cfg.IPC.SocketPath = *o.IPCSocketPath
	}
	if o.ListenAddr != nil {
		cfg.HTTP.ListenAddr = *o.ListenAddr
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks config invariants and returns a user-friendly error.
// It is called after defaults + file + overrides are applied.
func (c *Config) Validate() error {
	// Sampler: must stay finer than the 60 fps frame unit to be useful
	if c.Sampler.PollHz < framesPerSecond || c.Sampler.PollHz > 2000 {
		return fmt.Errorf("sampler.poll_hz must be between %d and 2000", framesPerSecond)
	}

	// Audio
	if c.Audio.Enabled {
		if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
			return errors.New("audio.sample_rate must be between 8000 and 192000")
		}
		if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
			return errors.New("audio.volume must be between 0 and 1")
		}
	}

	// Input codes only matter for enabled listeners
	if c.Input.KeyboardDevice != "" && c.Input.KeyboardCode == 0 {
		return errors.New("input.keyboard_code must be > 0")
	}
	if c.Input.MouseDevice != "" && c.Input.MouseCode == 0 {
		return errors.New("input.mouse_code must be > 0")
	}
	if c.Input.GamepadDevice != "" && c.Input.GamepadCode == 0 {
		return errors.New("input.gamepad_code must be > 0")
	}

	// Logging
	if c.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}
	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	return nil
}

// ExpandPath expands a leading "~" in a path using $HOME.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	if p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
