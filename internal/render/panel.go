// Package render materializes plot specs as terminal charts drawn with
// ntcharts. Panels read their axis ranges from the shared arena at draw
// time, so linked panels pan and zoom together.
package render

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/qadash/internal/axislink"
	"github.com/papapumpkin/qadash/internal/plotspec"
)

// Column names the panels plot against.
const (
	MagColumn   = "psfMag"
	RAColumn    = "ra"
	DecColumn   = "dec"
	VisitColumn = "visit"
)

// Sentinel errors for panel construction.
var (
	// ErrNoTable indicates the category has no table to plot.
	ErrNoTable = errors.New("no table for category")
	// ErrMissingColumn indicates a coordinate column is absent.
	ErrMissingColumn = errors.New("missing coordinate column")
)

// point is one plotted value. v is the metric value; it picks the glyph
// on sky maps.
type point struct {
	x, y, v float64
}

// series is one glyph-coded set of points.
type series struct {
	name   string
	glyph  rune
	points []point
}

// Panel is a materialized chart.
type Panel struct {
	spec   plotspec.Spec
	title  string
	series []series
	axes   *axislink.Table
	x, y   axislink.Handle
	xLabel string
	yLabel string
	vLo    float64
	vHi    float64
}

// Spec returns the spec the panel was built from.
func (p *Panel) Spec() plotspec.Spec {
	return p.spec
}

// Title is the heading drawn above the chart. It is the spec label unless
// the panel overlays several categories.
func (p *Panel) Title() string {
	if p.title != "" {
		return p.title
	}
	return p.spec.Label()
}

// Axes returns the panel's range handles for linking.
func (p *Panel) Axes() (x, y *axislink.Handle) {
	return &p.x, &p.y
}

// Points returns the number of plotted points across all series.
func (p *Panel) Points() int {
	n := 0
	for _, s := range p.series {
		n += len(s.points)
	}
	return n
}

// Summary is a one-line description used by the CLI and control server.
func (p *Panel) Summary() string {
	xr, yr := p.axes.Get(p.x), p.axes.Get(p.y)
	return fmt.Sprintf("%s %s: %d points, %s [%.4g, %.4g], %s [%.4g, %.4g]",
		p.spec.Role, p.spec.Label(), p.Points(), p.xLabel, xr.Start, xr.End, p.yLabel, yr.Start, yr.End)
}

// Render draws the panel into a width x height block: a title line and the
// chart below it.
func (p *Panel) Render(width, height int) string {
	title := styleTitle.Render(truncate(p.Title(), width))
	if width < 8 || height < 4 {
		return title
	}

	xr, yr := p.axes.Get(p.x), p.axes.Get(p.y)
	chart := linechart.New(width, height-1, xr.Start, xr.End, yr.Start, yr.End,
		linechart.WithXYSteps(2, 2))
	chart.DrawXYAxisAndLabel()
	for _, s := range p.series {
		for _, pt := range s.points {
			if pt.x < xr.Start || pt.x > xr.End || pt.y < yr.Start || pt.y > yr.End {
				continue
			}
			glyph := s.glyph
			if p.spec.Role == plotspec.RoleSky {
				glyph = shade(pt.v, p.vLo, p.vHi)
			}
			chart.DrawRune(canvas.Float64Point{X: pt.x, Y: pt.y}, glyph)
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, chart.View())
}

// Legend lists the series glyphs of a top-aggregate panel.
func (p *Panel) Legend() string {
	if len(p.series) < 2 {
		return ""
	}
	parts := make([]string, len(p.series))
	for i, s := range p.series {
		parts[i] = string(s.glyph) + " " + s.name
	}
	return strings.Join(parts, "  ")
}

// shadeGlyphs run from low to high metric values.
var shadeGlyphs = []rune{'·', '∘', '•', '●'}

func shade(v, lo, hi float64) rune {
	if math.IsNaN(v) || hi <= lo {
		return shadeGlyphs[0]
	}
	i := int((v - lo) / (hi - lo) * float64(len(shadeGlyphs)))
	return shadeGlyphs[min(max(i, 0), len(shadeGlyphs)-1)]
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
