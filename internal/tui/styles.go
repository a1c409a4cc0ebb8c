package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary     = lipgloss.Color("#00BFFF") // Cyan: primary accent
	colorAccent      = lipgloss.Color("#FFD700") // Gold: warnings, active filters
	colorSuccess     = lipgloss.Color("#00E676") // Green: success toasts
	colorDanger      = lipgloss.Color("#FF5252") // Red: errors
	colorMuted       = lipgloss.Color("#636363") // Gray: de-emphasized
	colorMutedLight  = lipgloss.Color("#8C8C8C") // Lighter gray: normal text
	colorWhite       = lipgloss.Color("#EEEEEE") // Off-white: primary text
	colorBrightWhite = lipgloss.Color("#FFFFFF") // Pure white: emphatic text
	colorSurface     = lipgloss.Color("#1E1E2E") // Dark surface: info bar bg
	colorSurfaceDim  = lipgloss.Color("#181825") // Darkest surface: footer bg
	colorBlue        = lipgloss.Color("#5B8DEF") // Blue: info toasts
)

// Selection indicator prepended to the cursor row.
const selectionIndicator = "▎"

// Checklist icons.
const (
	iconChecked   = "■"
	iconUnchecked = "□"
	iconFlagTrue  = "✓"
	iconFlagFalse = "✗"
)

// Info bar styles: visually dominant with solid background.
var (
	styleInfoBar = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite).
			Bold(true).
			Padding(0, 1)

	styleInfoLabel = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorPrimary).
			Bold(true)

	styleInfoValue = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorWhite)

	styleInfoMode = lipgloss.NewStyle().
			Background(colorSurface).
			Foreground(colorAccent)
)

// Sidebar row styles.
var (
	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorBrightWhite).
				Bold(true)

	styleRowNormal = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleSelectionIndicator = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleSectionTitle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	styleFilter = lipgloss.NewStyle().
			Foreground(colorAccent)

	styleDim = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleSidebar = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(colorMuted).
			PaddingRight(1)
)

// Toast styles, one border color per severity.
var (
	styleToast = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	styleToastTitle = lipgloss.NewStyle().
			Bold(true)
)

// Prompt style for the query and flag inputs.
var stylePrompt = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true)

// Footer styles: top border, clear key/desc contrast.
var (
	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorSurfaceDim).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorMuted)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterSep = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMutedLight)
)
