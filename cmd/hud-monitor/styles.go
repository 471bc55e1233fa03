package main

import (
	"github.com/charmbracelet/lipgloss"

	"chargehud/internal/zone"
)

var (
	colorTitle  = lipgloss.Color("#00CCFF")
	colorDim    = lipgloss.Color("#5555AA")
	colorOK     = lipgloss.Color("#00FF66")
	colorWarn   = lipgloss.Color("#FFCC00")
	colorError  = lipgloss.Color("#FF3366")
	colorBorder = lipgloss.Color("#2A2A55")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorTitle).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	onStyle = lipgloss.NewStyle().
		Foreground(colorOK)

	offStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	historyStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

// zoneColors follows the cue pitch: cool for short holds, hot for full charge.
var zoneColors = map[zone.Zone]lipgloss.Color{
	zone.None:  colorDim,
	zone.Tap:   lipgloss.Color("#00CCFF"),
	zone.Small: lipgloss.Color("#00FFCC"),
	zone.Mid:   lipgloss.Color("#00FF66"),
	zone.Large: lipgloss.Color("#FFCC00"),
	zone.Full:  lipgloss.Color("#FF00CC"),
}

func zoneLabel(z zone.Zone) string {
	c, ok := zoneColors[z]
	if !ok {
		c = colorDim
	}
	return lipgloss.NewStyle().Foreground(c).Bold(z == zone.Full).Render(z.String())
}

func onOff(b bool, on, off string) string {
	if b {
		return onStyle.Render(on)
	}
	return offStyle.Render(off)
}
