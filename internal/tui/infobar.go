package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/viewmode"
)

// InfoBar renders the persistent top bar: repository, tract, counts and
// the active view.
type InfoBar struct {
	Path    string
	Tract   string
	Summary catalog.Summary
	Mode    viewmode.Mode
	Width   int
}

// Logo returns the styled program name for the info bar.
func Logo() string {
	return styleInfoLabel.Render("◈ QADASH")
}

// View renders the info bar as a single line. In compact mode only the
// repository name and view are shown.
func (b InfoBar) View() string {
	const barPadding = 2
	inner := b.Width - barPadding
	if inner < 0 {
		inner = 0
	}
	sep := styleInfoValue.Render("  ")

	left := Logo() + sep
	if b.Path == "" {
		left += styleInfoValue.Render("no repository")
	} else {
		left += styleInfoValue.Render(filepath.Base(b.Path))
	}
	if b.Tract != "" {
		left += sep + styleInfoLabel.Render("tract ") + styleInfoValue.Render(b.Tract)
	}

	right := styleInfoMode.Render(b.Mode.Title())
	if b.Width >= CompactWidth {
		counts := fmt.Sprintf("tracts %d · patches %d · visits %d · objects %d",
			b.Summary.Tracts, b.Summary.Patches, b.Summary.Visits, b.Summary.UniqueObjects)
		right = styleInfoValue.Render(counts) + sep + right
	}

	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Counts are dropped first when the bar is too narrow.
		right = styleInfoMode.Render(b.Mode.Title())
		gap = inner - lipgloss.Width(left) - lipgloss.Width(right)
	}
	if gap < 1 {
		gap = 1
	}
	line := left + styleInfoValue.Render(strings.Repeat(" ", gap)) + right
	return styleInfoBar.Width(b.Width).MaxWidth(b.Width).Render(line)
}
