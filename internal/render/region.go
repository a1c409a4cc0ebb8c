package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/qadash/internal/viewmode"
)

// topHeightShare is the fraction of the region given to top panels in the
// aggregated layout.
const topHeightShare = 0.4

// Region draws a materialized layout into width x height cells. In the
// sky-grid layout activeTab picks the visible tab; it is clamped to range.
// An empty layout draws nothing.
func Region(l viewmode.Layout, width, height, activeTab int) string {
	if l.Empty() || width <= 0 || height <= 0 {
		return ""
	}
	if l.Mode == viewmode.SkyGrid {
		return skyGrid(l.Tabs, width, height, activeTab)
	}
	return aggregated(l, width, height)
}

func aggregated(l viewmode.Layout, width, height int) string {
	var blocks []string
	listHeight := height
	if len(l.Top) > 0 {
		topHeight := int(float64(height) * topHeightShare)
		if len(l.List) == 0 {
			topHeight = height
		}
		listHeight = height - topHeight
		blocks = append(blocks, row(overlay(l.Top), width, topHeight))
	}
	if len(l.List) > 0 && listHeight > 0 {
		h := max(listHeight/len(l.List), 4)
		for _, p := range l.List {
			blocks = append(blocks, row([]viewmode.Panel{p}, width, h))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// overlay merges the top-aggregate panels of every category into one chart
// drawn on the first panel's axes, which linking shares across the group.
// Series are renamed after their category and glyphs are reassigned in
// order. Panels from another materializer are drawn as they are.
func overlay(panels []viewmode.Panel) []viewmode.Panel {
	if len(panels) < 2 {
		return panels
	}
	var (
		merged *Panel
		cats   []string
	)
	for _, vp := range panels {
		p, ok := vp.(*Panel)
		if !ok {
			return panels
		}
		if merged == nil {
			merged = &Panel{spec: p.spec, axes: p.axes, x: p.x, y: p.y, xLabel: p.xLabel, yLabel: p.yLabel}
		}
		cats = append(cats, string(p.spec.Category))
		for _, s := range p.series {
			merged.series = append(merged.series, series{
				name:   string(p.spec.Category) + " " + s.name,
				glyph:  seriesGlyphs[len(merged.series)%len(seriesGlyphs)],
				points: s.points,
			})
		}
	}
	merged.title = strings.Join(cats, ", ") + " - visits"
	return []viewmode.Panel{merged}
}

func row(panels []viewmode.Panel, width, height int) string {
	if len(panels) == 0 {
		return ""
	}
	w := width / len(panels)
	cells := make([]string, len(panels))
	for i, p := range panels {
		cell := p.Render(w, height-1)
		if rp, ok := p.(*Panel); ok && rp.Legend() != "" {
			cell = lipgloss.JoinVertical(lipgloss.Left, cell, styleLegend.Render(truncate(rp.Legend(), w)))
		}
		cells[i] = lipgloss.NewStyle().Width(w).Render(cell)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func skyGrid(tabs []viewmode.Tab, width, height, active int) string {
	active = min(max(active, 0), len(tabs)-1)
	labels := make([]string, len(tabs))
	for i, t := range tabs {
		if i == active {
			labels[i] = styleTabActive.Render(t.Label)
		} else {
			labels[i] = styleTabInactive.Render(t.Label)
		}
	}
	bar := lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(labels, ""))
	return lipgloss.JoinVertical(lipgloss.Left, bar, tabs[active].Panel.Render(width, height-1))
}
