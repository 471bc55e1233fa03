package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"chargehud/internal/overlay"
	"chargehud/internal/zone"
)

// overlayMsg carries one decoded message from the daemon.
type overlayMsg struct {
	env overlay.Envelope
}

// connClosedMsg is sent once when the read loop stops.
type connClosedMsg struct {
	err error
}

// decodeErrMsg reports a frame that was not a valid overlay envelope.
type decodeErrMsg struct {
	err error
}

var keys = struct {
	Quit  key.Binding
	Clear key.Binding
}{
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c")),
	Clear: key.NewBinding(key.WithKeys("c")),
}

const (
	defaultBarWidth = 40
	maxBarWidth     = 80
)

// model mirrors the daemon's HUD state as seen over the overlay socket.
type model struct {
	url string
	bar progress.Model

	connected bool
	lastErr   string

	visible bool
	muted   bool
	holding bool
	trigger string
	holdID  string
	frame   int

	// Result of the most recent completed hold.
	lastFrame   int
	lastTrigger string
	haveLast    bool

	history    []string
	maxHistory int
}

func newModel(url string, maxHistory int) model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = defaultBarWidth
	return model{
		url:        url,
		bar:        bar,
		connected:  true,
		visible:    true,
		maxHistory: maxHistory,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w := msg.Width - 4
		if w > maxBarWidth {
			w = maxBarWidth
		}
		if w < 10 {
			w = 10
		}
		m.bar.Width = w

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Clear):
			m.history = nil
		}

	case overlayMsg:
		if err := m.apply(msg.env); err != nil {
			m.lastErr = err.Error()
		}

	case decodeErrMsg:
		m.lastErr = "bad message from daemon: " + msg.err.Error()

	case connClosedMsg:
		m.connected = false
		m.holding = false
		if msg.err != nil {
			m.lastErr = msg.err.Error()
		}
	}
	return m, nil
}

// apply folds one overlay message into the model.
func (m *model) apply(env overlay.Envelope) error {
	switch env.Type {
	case overlay.TypeStateInit:
		var st overlay.StateData
		if err := json.Unmarshal(env.Data, &st); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		m.visible = st.Visible
		m.muted = st.Muted
		m.holding = st.Holding
		m.trigger = st.Trigger
		m.holdID = st.HoldID
		m.frame = st.Frame

	case overlay.TypeHoldStart:
		var d overlay.HoldData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		m.holding = true
		m.trigger = d.Trigger
		m.holdID = d.HoldID
		m.frame = 0

	case overlay.TypeProgress:
		var d overlay.FrameData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		if m.holding {
			m.frame = int(d.Frame)
		}

	case overlay.TypeHoldEnd:
		var d overlay.HoldData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		m.holding = false
		m.lastTrigger = d.Trigger

	case overlay.TypeUpdate:
		var d overlay.FrameData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		m.frame = int(d.Frame)
		m.lastFrame = int(d.Frame)
		m.haveLast = true
		m.pushHistory(env.Ts, m.lastTrigger, m.lastFrame)

	case overlay.TypeMuteChanged:
		var d overlay.MuteData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		m.muted = d.Muted

	case overlay.TypeVisibilityChanged:
		var d overlay.VisibilityData
		if err := json.Unmarshal(env.Data, &d); err != nil {
			return fmt.Errorf("%s: %w", env.Type, err)
		}
		m.visible = d.Visible

	default:
		return fmt.Errorf("unknown message type %q", env.Type)
	}
	return nil
}

func (m *model) pushHistory(ts *time.Time, trigger string, frame int) {
	if m.maxHistory <= 0 {
		return
	}
	at := "--:--:--"
	if ts != nil {
		at = ts.Local().Format("15:04:05")
	}
	line := fmt.Sprintf("%s  %-14s %2d  %s", at, trigger, frame, zone.Of(frame))
	m.history = append([]string{line}, m.history...)
	if len(m.history) > m.maxHistory {
		m.history = m.history[:m.maxHistory]
	}
}

// percent maps a frame count onto the bar; full charge fills it.
func percent(frame int) float64 {
	if frame <= 0 {
		return 0
	}
	if frame >= zone.FullFrame {
		return 1
	}
	return float64(frame) / float64(zone.FullFrame)
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("chargehud monitor"))
	b.WriteString("  ")
	b.WriteString(labelStyle.Render(m.url))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("link "))
	b.WriteString(onOff(m.connected, "up", "down"))
	b.WriteString(labelStyle.Render("  hud "))
	b.WriteString(onOff(m.visible, "visible", "hidden"))
	b.WriteString(labelStyle.Render("  audio "))
	b.WriteString(onOff(!m.muted, "on", "muted"))
	b.WriteString("\n\n")

	var panel strings.Builder
	if m.holding {
		fmt.Fprintf(&panel, "%s %s\n", labelStyle.Render("holding"), m.trigger)
	} else {
		panel.WriteString(labelStyle.Render("idle") + "\n")
	}
	panel.WriteString(m.bar.ViewAs(percent(m.frame)))
	fmt.Fprintf(&panel, "\n%s %2d/%d  %s", labelStyle.Render("frame"), m.frame, zone.FullFrame, zoneLabel(zone.Of(m.frame)))
	if m.haveLast {
		fmt.Fprintf(&panel, "\n%s %d (%s)", labelStyle.Render("last"), m.lastFrame, zone.Of(m.lastFrame))
	}
	b.WriteString(panelStyle.Render(panel.String()))
	b.WriteString("\n")

	if len(m.history) > 0 {
		b.WriteString("\n")
		for _, line := range m.history {
			b.WriteString(historyStyle.Render(line))
			b.WriteString("\n")
		}
	}

	if m.lastErr != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.lastErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("q quit  c clear history"))
	b.WriteString("\n")
	return b.String()
}
