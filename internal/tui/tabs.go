package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/qadash/internal/catalog"
)

// CategoryTabs renders the band selector as a row of tab labels.
type CategoryTabs struct {
	Categories []catalog.Category
	Active     int
	// Filtered marks categories with an active filter.
	Filtered map[catalog.Category]bool
	Width    int
}

// View renders the tab bar as a single styled line. The active tab is
// highlighted; filtered bands carry a marker.
func (tb CategoryTabs) View() string {
	activeStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(colorMuted)

	var parts []string
	for i, cat := range tb.Categories {
		label := fmt.Sprintf("[%d] %s", i+1, cat)
		if tb.Filtered[cat] {
			label += styleFilter.Render("*")
		}
		if i == tb.Active {
			parts = append(parts, activeStyle.Render(label))
		} else {
			parts = append(parts, inactiveStyle.Render(label))
		}
	}

	line := strings.Join(parts, "  ")
	return lipgloss.NewStyle().
		Width(tb.Width).
		PaddingLeft(2).
		Render(line)
}

// Next returns the index after i, wrapping around.
func (tb CategoryTabs) Next(i int) int {
	if len(tb.Categories) == 0 {
		return 0
	}
	return (i + 1) % len(tb.Categories)
}

// Prev returns the index before i, wrapping around.
func (tb CategoryTabs) Prev(i int) int {
	n := len(tb.Categories)
	if n == 0 {
		return 0
	}
	return (i + n - 1) % n
}
