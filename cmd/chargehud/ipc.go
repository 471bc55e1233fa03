package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"

	"chargehud/internal/control"
)

// ============================================================================
// IPC Server - Unix Domain Socket Interface
// ============================================================================
// Line-delimited JSON control channel used by chargectl and scripts to
// toggle mute/visibility, query status and inject trigger presses.
//
//   - Client sends: {"type": "toggle_mute"}
//   - Server responds: {"status": "ok", "data": {...status...}}
//     or {"status": "error", "error": "msg"}
// ============================================================================

// runIPCServer serves the control socket until ctx is canceled.
func runIPCServer(ctx context.Context, socketPath string, engine *Engine, logger *slog.Logger) error {
	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", socketPath, err)
	}
	defer listener.Close()
	defer os.Remove(socketPath)

	if err := os.Chmod(socketPath, 0o600); err != nil {
		return fmt.Errorf("chmod socket: %w", err)
	}

	logger.Info("IPC listening", "socket", socketPath)

	// Closing the listener unblocks Accept.
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				logger.Debug("IPC listener closed")
				return nil
			}
			logger.Error("IPC accept error", "error", err)
			continue
		}

		go handleIPCConnection(conn, engine, logger)
	}
}

// handleIPCConnection answers every request line on conn until the client hangs up.
func handleIPCConnection(conn net.Conn, engine *Engine, logger *slog.Logger) {
	defer conn.Close()

	logger.Debug("IPC connection", "remote_addr", conn.RemoteAddr())

	scanner := bufio.NewScanner(conn)
	encoder := json.NewEncoder(conn)

	for scanner.Scan() {
		line := scanner.Bytes()
		logger.Debug("IPC received", "line", string(line))

		resp := handleIPCMessage(line, engine)
		if err := encoder.Encode(resp); err != nil {
			logger.Error("IPC failed to send response", "error", err)
			return
		}
	}

	logger.Debug("IPC connection closed")
}

// handleIPCMessage applies one request to the engine and builds the response.
func handleIPCMessage(line []byte, engine *Engine) control.Response {
	m, err := control.Unmarshal(line)
	if err != nil {
		return control.Response{Status: "error", Error: fmt.Sprintf("parse message: %v", err)}
	}

	switch m := m.(type) {
	case control.ToggleMute:
		engine.ToggleMute()
	case control.ToggleVisibility:
		engine.ToggleVisibility()
	case control.GetStatus:
	case control.TriggerPress:
		t, err := parseTrigger(m.Trigger)
		if err != nil {
			return control.Response{Status: "error", Error: err.Error()}
		}
		engine.Press(t)
	case control.TriggerRelease:
		t, err := parseTrigger(m.Trigger)
		if err != nil {
			return control.Response{Status: "error", Error: err.Error()}
		}
		engine.Release(t)
	default:
		return control.Response{Status: "error", Error: fmt.Sprintf("unsupported message %T", m)}
	}

	st := engine.Status()
	return control.Response{Status: "ok", Data: &st}
}
