package main

import (
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"chargehud/internal/overlay"
)

// ============================================================================
// hud-monitor - terminal overlay for the chargehud daemon
// ============================================================================
// Connects to the daemon's overlay WebSocket and renders the live hold
// progress, zone and HUD toggles.
// ============================================================================

func main() {
	var (
		wsURL   = flag.String("ws", "ws://127.0.0.1:7878/ws", "chargehud overlay websocket URL")
		history = flag.Int("history", 8, "Number of completed holds to keep on screen")
	)
	flag.Parse()

	u, err := url.Parse(*wsURL)
	if err != nil {
		log.Fatalf("invalid websocket URL: %v", err)
	}

	d := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}
	conn, _, err := d.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", u, err)
	}
	defer conn.Close()

	p := tea.NewProgram(newModel(u.String(), *history), tea.WithAltScreen())

	go readLoop(conn, p.Send)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

// readLoop forwards every overlay message to send until the connection ends.
// Server pings are answered by the connection's default ping handler.
func readLoop(conn *websocket.Conn, send func(tea.Msg)) {
	for {
		typ, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				err = nil
			}
			send(connClosedMsg{err: err})
			return
		}
		if typ != websocket.TextMessage {
			continue
		}
		env, err := overlay.Decode(data)
		if err != nil {
			send(decodeErrMsg{err: err})
			continue
		}
		send(overlayMsg{env: env})
	}
}
