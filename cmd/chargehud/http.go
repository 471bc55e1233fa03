package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"chargehud/internal/control"
)

// ============================================================================
// HTTP Server
// ============================================================================
// Serves the overlay WebSocket on /ws and a small JSON control API so that
// stream-deck style tools can toggle the HUD without the IPC socket:
//
//   GET  /api/status
//   POST /api/toggle/mute
//   POST /api/toggle/visibility
// ============================================================================

const httpShutdownTimeout = 3 * time.Second

// newHTTPHandler builds the mux for the overlay and control API.
func newHTTPHandler(engine *Engine, overlaySrv *OverlayServer, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	if overlaySrv != nil {
		mux.Handle("GET /ws", overlaySrv)
	}

	mux.HandleFunc("GET /api/status", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, engine.Status(), logger)
	})
	mux.HandleFunc("POST /api/toggle/mute", func(w http.ResponseWriter, r *http.Request) {
		engine.ToggleMute()
		writeStatus(w, engine.Status(), logger)
	})
	mux.HandleFunc("POST /api/toggle/visibility", func(w http.ResponseWriter, r *http.Request) {
		engine.ToggleVisibility()
		writeStatus(w, engine.Status(), logger)
	})

	return mux
}

func writeStatus(w http.ResponseWriter, st control.Status, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(control.Response{Status: "ok", Data: &st}); err != nil {
		logger.Debug("http write response failed", "error", err)
	}
}

// runHTTPServer serves handler on addr and shuts it down gracefully when ctx is canceled.
func runHTTPServer(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("http server listening", "addr", addr)

	errCh := make(chan error, 1)
	go func() {
		// ListenAndServe returns http.ErrServerClosed on Shutdown.
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server: %w", err)
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		<-errCh
		return nil

	case err := <-errCh:
		return err
	}
}
