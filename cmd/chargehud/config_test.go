package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig_OverlaysDefaults(t *testing.T) {
	cfg, err := parseConfig([]byte(`
input:
  mouse_device: /dev/input/event5
sampler:
  poll_hz: 500
audio:
  volume: 0.25
hud:
  start_muted: true
`))
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}

	if cfg.Input.MouseDevice != "/dev/input/event5" {
		t.Errorf("mouse_device = %q", cfg.Input.MouseDevice)
	}
	if cfg.Input.KeyboardDevice != "" {
		t.Errorf("keyboard_device = %q, want disabled by default", cfg.Input.KeyboardDevice)
	}
	if cfg.Input.MouseCode != BTN_LEFT {
		t.Errorf("mouse_code default lost: %#x", cfg.Input.MouseCode)
	}
	if cfg.Sampler.PollHz != 500 {
		t.Errorf("poll_hz = %d, want 500", cfg.Sampler.PollHz)
	}
	if cfg.Audio.Volume != 0.25 || !cfg.Audio.Enabled || cfg.Audio.SampleRate != defaultSampleRate {
		t.Errorf("audio = %+v", cfg.Audio)
	}
	if !cfg.HUD.StartMuted || !cfg.HUD.StartVisible {
		t.Errorf("hud = %+v", cfg.HUD)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseConfig_UnknownFieldRejected(t *testing.T) {
	_, err := parseConfig([]byte("sampler:\n  pollhz: 240\n"))
	if err == nil || !strings.Contains(err.Error(), "pollhz") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestParseConfig_TrailingDocumentRejected(t *testing.T) {
	_, err := parseConfig([]byte("sampler:\n  poll_hz: 240\n---\nsampler:\n  poll_hz: 120\n"))
	if err == nil || !strings.Contains(err.Error(), "trailing document") {
		t.Fatalf("expected trailing document error, got %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chargehud.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("level = %q, want debug", cfg.Logging.Level)
	}

	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	if _, err := LoadConfigFile(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestFlagOverrides_Apply(t *testing.T) {
	cfg := DefaultConfig()

	pad := "/dev/input/event12"
	hz := 480
	audio := false
	level := "warn"
	empty := ""
	FlagOverrides{
		GamepadDevice: &pad,
		PollHz:        &hz,
		AudioEnabled:  &audio,
		LogLevel:      &level,
		ListenAddr:    &empty,
	}.Apply(&cfg)

	if cfg.Input.GamepadDevice != pad || cfg.Sampler.PollHz != hz || cfg.Audio.Enabled || cfg.Logging.Level != level {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// A non-nil zero value still overrides.
	if cfg.HTTP.ListenAddr != "" {
		t.Fatalf("listen addr = %q, want empty", cfg.HTTP.ListenAddr)
	}
	// Unset overrides leave defaults.
	if cfg.IPC.SocketPath != defaultIPCSocket || cfg.Input.KeyboardDevice != defaultKeyboardDevice {
		t.Fatalf("unset overrides changed config: %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"poll too slow", func(c *Config) { c.Sampler.PollHz = 30 }, "poll_hz"},
		{"poll too fast", func(c *Config) { c.Sampler.PollHz = 5000 }, "poll_hz"},
		{"bad sample rate", func(c *Config) { c.Audio.SampleRate = 100 }, "sample_rate"},
		{"volume above one", func(c *Config) { c.Audio.Volume = 1.5 }, "volume"},
		{"audio disabled skips audio checks", func(c *Config) { c.Audio.Enabled = false; c.Audio.Volume = 7 }, ""},
		{"zero code on enabled device", func(c *Config) { c.Input.KeyboardDevice = "/dev/input/event3"; c.Input.KeyboardCode = 0 }, "keyboard_code"},
		{"zero code on default keyboard", func(c *Config) { c.Input.KeyboardCode = 0 }, ""},
		{"zero code on disabled device", func(c *Config) { c.Input.MouseCode = 0 }, ""},
		{"empty level", func(c *Config) { c.Logging.Level = "" }, "logging.level"},
		{"bad level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/chargehud.sock"); got != filepath.Join(home, "chargehud.sock") {
		t.Errorf("ExpandPath(~/chargehud.sock) = %q", got)
	}
	if got := ExpandPath("/tmp/x"); got != "/tmp/x" {
		t.Errorf("ExpandPath(/tmp/x) = %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]LogLevel{
		"error":   LogLevelError,
		"WARN":    LogLevelWarn,
		"warning": LogLevelWarn,
		"info":    LogLevelInfo,
		"Debug":   LogLevelDebug,
	} {
		got, err := parseLogLevel(in)
		if err != nil || got != want {
			t.Errorf("parseLogLevel(%q) = (%q, %v), want %q", in, got, err, want)
		}
	}
	if _, err := parseLogLevel("trace"); err == nil {
		t.Errorf("expected error for trace")
	}
}

func TestParseConfig_EmptyFileIsDefaults(t *testing.T) {
	cfg, err := parseConfig(nil)
	if err != nil {
		t.Fatalf("parseConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("empty config = %+v, want defaults", cfg)
	}
}
