package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"chargehud/internal/control"
	"chargehud/internal/overlay"
)

func mustEnvelope(t *testing.T, typ string, data any) overlay.Envelope {
	t.Helper()
	b, err := overlay.Encode(typ, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), data)
	if err != nil {
		t.Fatalf("encode %s: %v", typ, err)
	}
	env, err := overlay.Decode(b)
	if err != nil {
		t.Fatalf("decode %s: %v", typ, err)
	}
	return env
}

func feed(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestModel_HoldLifecycle(t *testing.T) {
	m := newModel("ws://test/ws", 4)
	hold := overlay.HoldData{Trigger: "keyboard:space", HoldID: "h1"}

	m = feed(t, m,
		overlayMsg{mustEnvelope(t, overlay.TypeStateInit, control.Status{Visible: true, Zone: "none"})},
		overlayMsg{mustEnvelope(t, overlay.TypeHoldStart, hold)},
		overlayMsg{mustEnvelope(t, overlay.TypeProgress, overlay.FrameData{Frame: 1})},
		overlayMsg{mustEnvelope(t, overlay.TypeProgress, overlay.FrameData{Frame: 14})},
	)
	if !m.holding || m.trigger != "keyboard:space" || m.holdID != "h1" || m.frame != 14 {
		t.Fatalf("during hold: %+v", m)
	}

	m = feed(t, m,
		overlayMsg{mustEnvelope(t, overlay.TypeHoldEnd, hold)},
		overlayMsg{mustEnvelope(t, overlay.TypeUpdate, overlay.FrameData{Frame: 15})},
	)
	if m.holding || m.frame != 15 || m.lastFrame != 15 || !m.haveLast {
		t.Fatalf("after hold: %+v", m)
	}
	if len(m.history) != 1 || !strings.Contains(m.history[0], "keyboard:space") || !strings.Contains(m.history[0], "mid") {
		t.Fatalf("history = %q", m.history)
	}
	if m.lastErr != "" {
		t.Fatalf("unexpected error %q", m.lastErr)
	}
}

func TestModel_ProgressIgnoredWhenIdle(t *testing.T) {
	m := newModel("ws://test/ws", 4)
	m = feed(t, m, overlayMsg{mustEnvelope(t, overlay.TypeProgress, overlay.FrameData{Frame: 9})})
	if m.frame != 0 {
		t.Fatalf("frame = %d, want 0", m.frame)
	}
}

func TestModel_Toggles(t *testing.T) {
	m := newModel("ws://test/ws", 4)
	m = feed(t, m,
		overlayMsg{mustEnvelope(t, overlay.TypeMuteChanged, overlay.MuteData{Muted: true})},
		overlayMsg{mustEnvelope(t, overlay.TypeVisibilityChanged, overlay.VisibilityData{Visible: false})},
	)
	if !m.muted || m.visible {
		t.Fatalf("toggles: muted=%v visible=%v", m.muted, m.visible)
	}
}

func TestModel_HistoryBounded(t *testing.T) {
	m := newModel("ws://test/ws", 2)
	for f := uint32(1); f <= 5; f++ {
		m = feed(t, m, overlayMsg{mustEnvelope(t, overlay.TypeUpdate, overlay.FrameData{Frame: f})})
	}
	if len(m.history) != 2 {
		t.Fatalf("history len = %d, want 2", len(m.history))
	}
	if !strings.Contains(m.history[0], " 5 ") {
		t.Fatalf("newest entry = %q, want frame 5 first", m.history[0])
	}

	m = feed(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")})
	if len(m.history) != 0 {
		t.Fatalf("history not cleared: %q", m.history)
	}
}

func TestModel_UnknownTypeReported(t *testing.T) {
	m := newModel("ws://test/ws", 4)
	m = feed(t, m, overlayMsg{overlay.Envelope{Type: "bogus"}})
	if !strings.Contains(m.lastErr, "bogus") {
		t.Fatalf("lastErr = %q", m.lastErr)
	}
}

func TestModel_QuitAndResize(t *testing.T) {
	m := newModel("ws://test/ws", 4)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 50, Height: 20})
	m = next.(model)
	if m.bar.Width != 46 {
		t.Fatalf("bar width = %d, want 46", m.bar.Width)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestModel_ConnClosed(t *testing.T) {
	m := newModel("ws://test/ws", 4)
	m.holding = true
	m = feed(t, m, connClosedMsg{})
	if m.connected || m.holding || m.lastErr != "" {
		t.Fatalf("after close: %+v", m)
	}
	if !strings.Contains(m.View(), "down") {
		t.Fatalf("view does not show link down")
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		frame int
		want  float64
	}{
		{-1, 0},
		{0, 0},
		{18, 0.5},
		{36, 1},
		{90, 1},
	}
	for _, tt := range tests {
		if got := percent(tt.frame); got != tt.want {
			t.Errorf("percent(%d) = %v, want %v", tt.frame, got, tt.want)
		}
	}
}

func TestReadLoop(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close()
		b, _ := overlay.Encode(overlay.TypeMuteChanged, time.Time{}, overlay.MuteData{Muted: true})
		_ = c.WriteMessage(websocket.TextMessage, b)
		_ = c.WriteMessage(websocket.TextMessage, []byte("not json"))
		_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	msgs := make(chan tea.Msg, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		readLoop(conn, func(m tea.Msg) { msgs <- m })
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("readLoop did not return")
	}
	close(msgs)

	var got []tea.Msg
	for m := range msgs {
		got = append(got, m)
	}
	if len(got) != 3 {
		t.Fatalf("messages = %#v, want 3", got)
	}
	if om, ok := got[0].(overlayMsg); !ok || om.env.Type != overlay.TypeMuteChanged {
		t.Fatalf("first = %#v", got[0])
	}
	if _, ok := got[1].(decodeErrMsg); !ok {
		t.Fatalf("second = %#v", got[1])
	}
	if cm, ok := got[2].(connClosedMsg); !ok || cm.err != nil {
		t.Fatalf("third = %#v", got[2])
	}
}
