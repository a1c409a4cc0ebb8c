package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/qadash/internal/render"
	"github.com/papapumpkin/qadash/internal/viewmode"
)

// View renders the dashboard.
func (m AppModel) View() string {
	if m.Width == 0 {
		return "initializing..."
	}
	if m.Width < MinWidth || m.Height < MinHeight {
		return fmt.Sprintf("terminal too small (%dx%d, need %dx%d)", m.Width, m.Height, MinWidth, MinHeight)
	}

	bar := InfoBar{
		Path:    m.Session.Path(),
		Summary: m.LastFrame.Summary,
		Mode:    m.Session.Mode(),
		Width:   m.Width,
	}
	if cat := m.Session.Catalog(); cat != nil {
		bar.Tract = cat.Tract
	}

	top := []string{bar.View(), m.tabs().View()}

	var bottom []string
	if toasts := (Toasts{Messages: m.Board.Active(m.Now()), Width: m.Width}).View(); toasts != "" {
		bottom = append(bottom, lipgloss.PlaceHorizontal(m.Width, lipgloss.Right, toasts))
	}
	switch m.Focus {
	case FocusQuery:
		bottom = append(bottom, m.QueryIn.View())
	case FocusFlag:
		bottom = append(bottom, m.FlagIn.View())
	}
	bottom = append(bottom, m.footer().View())

	used := 0
	for _, s := range append(slices.Clone(top), bottom...) {
		used += lipgloss.Height(s)
	}
	bodyHeight := max(m.Height-used, 1)

	sections := append(top, m.body(bodyHeight))
	sections = append(sections, bottom...)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m AppModel) footer() Footer {
	bindings := AggregatedFooterBindings(m.Keys)
	switch {
	case m.Focus != FocusList:
		bindings = InputFooterBindings(m.Keys)
	case m.Session.Mode() == viewmode.SkyGrid:
		bindings = SkyFooterBindings(m.Keys)
	}
	return Footer{Width: m.Width, Bindings: bindings}
}

// body lays the sidebar beside the plot region. Narrow terminals drop the
// sidebar.
func (m AppModel) body(height int) string {
	layout := m.Session.Layout()
	if m.Width < SidebarCollapseWidth {
		return render.Region(layout, m.Width, height, m.SkyTab)
	}
	side := styleSidebar.Width(SidebarWidth).Height(height).MaxHeight(height).Render(m.sidebar(height))
	plots := render.Region(layout, m.Width-lipgloss.Width(side)-1, height, m.SkyTab)
	return lipgloss.JoinHorizontal(lipgloss.Top, side, " ", plots)
}

// sidebar lists the metric checklist of the active band followed by its
// filters.
func (m AppModel) sidebar(height int) string {
	cat := m.category()
	inner := SidebarWidth - 3
	var lines []string

	lines = append(lines, styleSectionTitle.Render(fmt.Sprintf("Metrics · %s", cat)))
	selected := m.Session.SelectedMetrics(cat)
	metrics := m.metrics()
	if len(metrics) == 0 {
		lines = append(lines, styleDim.Render("  (none)"))
	}

	// Keep the cursor row visible when the list is taller than the panel.
	room := max(height-8, 3)
	start := 0
	if m.Cursor >= room {
		start = m.Cursor - room + 1
	}
	for i := start; i < len(metrics) && i < start+room; i++ {
		name := metrics[i]
		icon := iconUnchecked
		if slices.Contains(selected, name) {
			icon = iconChecked
		}
		label := TruncateWithEllipsis(name, inner-4)
		if i == m.Cursor && m.Focus == FocusList {
			lines = append(lines, styleSelectionIndicator.Render(selectionIndicator)+styleRowSelected.Render(icon+" "+label))
		} else {
			lines = append(lines, " "+styleRowNormal.Render(icon+" "+label))
		}
	}

	lines = append(lines, "", styleSectionTitle.Render("Filters"))
	fs := m.Session.FilterState(cat)
	for _, f := range fs.Flags() {
		icon := iconFlagFalse
		if f.Value {
			icon = iconFlagTrue
		}
		lines = append(lines, " "+styleFilter.Render(icon+" "+TruncateWithEllipsis(f.Name, inner-4)))
	}
	if q := strings.TrimSpace(fs.Query()); q != "" {
		lines = append(lines, " "+styleFilter.Render("? "+TruncateWithEllipsis(q, inner-4)))
	}
	if fs.IsEmpty() {
		lines = append(lines, styleDim.Render("  (all rows)"))
	}

	view := m.Session.View()
	if raw := view.Raw(cat); raw != nil {
		lines = append(lines, styleDim.Render(fmt.Sprintf("  rows %d / %d", view.ActiveView(cat).Len(), raw.Len())))
	}
	return strings.Join(lines, "\n")
}
