package render

import "github.com/charmbracelet/lipgloss"

// Chart palette, matching the dashboard's cyan accent.
var (
	colorPrimary = lipgloss.Color("#00BFFF")
	colorMuted   = lipgloss.Color("#636363")
	colorWhite   = lipgloss.Color("#EEEEEE")
)

var (
	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleTabActive = lipgloss.NewStyle().
			Foreground(colorWhite).
			Background(colorPrimary).
			Bold(true).
			Padding(0, 1)

	styleTabInactive = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 1)

	styleLegend = lipgloss.NewStyle().
			Foreground(colorMuted)
)
