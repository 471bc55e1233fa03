package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
)

const version = "0.3.0"

func printVersion() {
	fmt.Printf("chargehud v%s\n", version)
	fmt.Println("Hold-timing HUD daemon: frame-accurate charge zones with audio cues")
}

func printUsage() {
	printVersion()
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  chargehud [OPTIONS]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Watches a keyboard key, a mouse button and a gamepad button (Linux evdev)")
	fmt.Println("  and measures how long each hold lasts in 60 fps frames. Frame progress and")
	fmt.Println("  hold results are streamed to overlays over WebSocket; zone changes and the")
	fmt.Println("  30-frame threshold are announced with short tones.")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML config file (flags override file values)")
	fmt.Println()
	fmt.Println("  -keyboard-device string")
	fmt.Println("        Input device for the keyboard trigger, e.g. /dev/input/by-id/usb-<vendor>-event-kbd")
	fmt.Println("        (default: none, listener disabled)")
	fmt.Println()
	fmt.Println("  -mouse-device string")
	fmt.Println("        Input device for the mouse trigger (empty disables)")
	fmt.Println()
	fmt.Println("  -gamepad-device string")
	fmt.Println("        Input device for the gamepad trigger (empty disables)")
	fmt.Println()
	fmt.Println("  -poll-hz int")
	fmt.Printf("        Frame sampling rate in Hz (default %d)\n", defaultPollHz)
	fmt.Println()
	fmt.Println("  -no-audio")
	fmt.Println("        Disable audio output (visual-only mode)")
	fmt.Println()
	fmt.Println("  -volume float")
	fmt.Printf("        Cue volume 0..1 (default %.1f)\n", defaultVolume)
	fmt.Println()
	fmt.Println("  -muted")
	fmt.Println("        Start with audio cues muted")
	fmt.Println()
	fmt.Println("  -ipc-socket string")
	fmt.Printf("        Unix domain socket path for IPC (default %q, empty disables)\n", defaultIPCSocket)
	fmt.Println()
	fmt.Println("  -listen string")
	fmt.Printf("        HTTP listen address for /ws and /api (default %q, empty disables)\n", defaultListenAddr)
	fmt.Println()
	fmt.Println("  -log-level string")
	fmt.Println("        Log level: error, warn, info, debug (default \"info\")")
	fmt.Println()
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println()
	fmt.Println("  -help")
	fmt.Println("        Print this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Keyboard and gamepad, overlay on the default port")
	fmt.Println("  chargehud -keyboard-device /dev/input/by-id/usb-Logitech_USB_Keyboard-event-kbd \\")
	fmt.Println("            -gamepad-device /dev/input/by-id/usb-Sony_Wireless_Controller-event-joystick")
	fmt.Println()
	fmt.Println("  # Visual-only from a config file")
	fmt.Println("  chargehud -config ~/.config/chargehud.yaml -no-audio")
	fmt.Println()
	fmt.Println("NOTES:")
	fmt.Println("  - Requires read access to input devices (run as root or add user to 'input' group)")
	fmt.Println("  - Use chargectl to toggle mute/visibility at runtime")
	fmt.Println()
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" {
			printVersion()
			return
		}
		if arg == "-help" || arg == "--help" || arg == "-h" {
			printUsage()
			return
		}
	}

	var (
		configPath     = flag.String("config", "", "Path to YAML config file")
		keyboardDevice = flag.String("keyboard-device", defaultKeyboardDevice, "Input device for the keyboard trigger (empty disables)")
		mouseDevice    = flag.String("mouse-device", "", "Input device for the mouse trigger (empty disables)")
		gamepadDevice  = flag.String("gamepad-device", "", "Input device for the gamepad trigger (empty disables)")
		pollHz         = flag.Int("poll-hz", defaultPollHz, "Frame sampling rate in Hz")
		noAudio        = flag.Bool("no-audio", false, "Disable audio output")
		volume         = flag.Float64("volume", defaultVolume, "Cue volume 0..1")
		muted          = flag.Bool("muted", false, "Start with audio cues muted")
		ipcSocketPath  = flag.String("ipc-socket", defaultIPCSocket, "Unix domain socket path for IPC")
		listenAddr     = flag.String("listen", defaultListenAddr, "HTTP listen address")
		logLevelStr    = flag.String("log-level", "info", "Log level: error, warn, info, debug")
		showVersion    = flag.Bool("version", false, "Print version and exit")
		showHelp       = flag.Bool("help", false, "Print help message")
	)

	flag.Usage = printUsage
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}
	if *showVersion {
		printVersion()
		return
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = LoadConfigFile(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	}

	// Only explicitly set flags override the file.
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	var ov FlagOverrides
	if set["keyboard-device"] {
		ov.KeyboardDevice = keyboardDevice
	}
	if set["mouse-device"] {
		ov.MouseDevice = mouseDevice
	}
	if set["gamepad-device"] {
		ov.GamepadDevice = gamepadDevice
	}
	if set["poll-hz"] {
		ov.PollHz = pollHz
	}
	if set["no-audio"] {
		enabled := !*noAudio
		ov.AudioEnabled = &enabled
	}
	if set["volume"] {
		ov.Volume = volume
	}
	if set["muted"] {
		ov.StartMuted = muted
	}
	if set["ipc-socket"] {
		ov.IPCSocketPath = ipcSocketPath
	}
	if set["listen"] {
		ov.ListenAddr = listenAddr
	}
	if set["log-level"] {
		ov.LogLevel = logLevelStr
	}
	ov.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error: invalid config:", err)
		os.Exit(1)
	}

	logLevel, err := parseLogLevel(cfg.Logging.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	logger := setupLogger(logLevel, os.Stdout)

	if err := run(cfg, logger); err != nil {
		logger.Error("chargehud stopped", "error", err)
		os.Exit(1)
	}
}

// run wires every component and blocks until SIGINT/SIGTERM or a fatal error.
func run(cfg Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var player TonePlayer = silentPlayer{logger: logger}
	if cfg.Audio.Enabled {
		p, err := newOtoPlayer(cfg.Audio.SampleRate, cfg.Audio.Volume, logger)
		if err != nil {
			return fmt.Errorf("audio init (set audio.enabled: false or -no-audio for visual-only): %w", err)
		}
		player = p
	} else {
		logger.Info("audio disabled, running visual-only")
	}

	listeners := newListeners(cfg.Input)
	if len(listeners) == 0 {
		logger.Warn("no input devices configured, holds can only be driven over IPC")
	}

	hub := NewHub(logger, HubConfig{})
	audio := NewAudioWorker(player, logger)
	hud := NewHudControl(cfg.HUD.StartVisible, cfg.HUD.StartMuted)
	engine := NewEngine(NewHoldState(), hud, audio, hub, systemClock{}, logger)

	logger.Debug("starting chargehud", "version", version)
	logger.Debug("configuration",
		"keyboard_device", cfg.Input.KeyboardDevice,
		"mouse_device", cfg.Input.MouseDevice,
		"gamepad_device", cfg.Input.GamepadDevice,
		"poll_hz", cfg.Sampler.PollHz,
		"audio_enabled", cfg.Audio.Enabled,
		"sample_rate", cfg.Audio.SampleRate,
		"volume", cfg.Audio.Volume,
		"start_visible", cfg.HUD.StartVisible,
		"start_muted", cfg.HUD.StartMuted,
		"ipc_socket", cfg.IPC.SocketPath,
		"listen", cfg.HTTP.ListenAddr)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		audio.Run(ctx)
		return nil
	})
	g.Go(func() error {
		runSampler(ctx, engine, cfg.Sampler.PollHz, logger)
		return nil
	})
	for _, l := range listeners {
		g.Go(func() error {
			runListener(ctx, l, engine, logger)
			return nil
		})
	}
	g.Go(func() error {
		hub.Run(ctx)
		return nil
	})

	if cfg.IPC.SocketPath != "" {
		g.Go(func() error {
			return runIPCServer(ctx, ExpandPath(cfg.IPC.SocketPath), engine, logger)
		})
	}
	if cfg.HTTP.ListenAddr != "" {
		handler := newHTTPHandler(engine, NewOverlayServer(logger, hub, engine.Status), logger)
		g.Go(func() error {
			return runHTTPServer(ctx, cfg.HTTP.ListenAddr, handler, logger)
		})
	}

	logger.Info("listening", "listeners", len(listeners), "ipc", cfg.IPC.SocketPath, "http", cfg.HTTP.ListenAddr)

	err := g.Wait()
	logger.Info("shutting down")
	return err
}
