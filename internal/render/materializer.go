package render

import (
	"fmt"
	"math"

	"github.com/papapumpkin/qadash/internal/axislink"
	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/plotspec"
	"github.com/papapumpkin/qadash/internal/viewmode"
)

// Source supplies the tables panels are drawn from.
type Source interface {
	// ActiveView returns the filtered object table of a category, or the
	// raw one when no filter is active.
	ActiveView(catalog.Category) *catalog.Table
	// Catalog returns the loaded catalog, for per-visit tables.
	Catalog() *catalog.Catalog
}

// seriesGlyphs distinguish metrics on a top-aggregate panel.
var seriesGlyphs = []rune{'●', '▲', '■', '◆', '✚', '✖'}

// Materializer builds terminal panels from specs.
type Materializer struct {
	src Source
}

// NewMaterializer returns a materializer reading from src.
func NewMaterializer(src Source) *Materializer {
	return &Materializer{src: src}
}

// Materialize implements viewmode.Materializer. Every metric the spec
// names is checked against the category's table first.
func (m *Materializer) Materialize(spec plotspec.Spec, axes *axislink.Table) (viewmode.Panel, error) {
	var (
		p   *Panel
		err error
	)
	switch spec.Role {
	case plotspec.RoleTopAggregate:
		p, err = m.visitPanel(spec, axes)
	case plotspec.RoleDetail:
		p, err = m.objectPanel(spec, axes, MagColumn, spec.Metric())
	case plotspec.RoleSky:
		p, err = m.objectPanel(spec, axes, RAColumn, DecColumn)
	default:
		err = fmt.Errorf("render: unknown role %q", spec.Role)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (m *Materializer) objectPanel(spec plotspec.Spec, axes *axislink.Table, xCol, yCol string) (*Panel, error) {
	t := m.src.ActiveView(spec.Category)
	if t == nil {
		return nil, fmt.Errorf("%w %s", ErrNoTable, spec.Category)
	}
	if err := plotspec.ValidateAgainst(spec, t); err != nil {
		return nil, err
	}
	for _, col := range []string{xCol, yCol} {
		if _, ok := t.Column(col); !ok {
			return nil, fmt.Errorf("%w %q in %s", ErrMissingColumn, col, spec.Category)
		}
	}

	metric := spec.Metric()
	s := series{name: metric, glyph: seriesGlyphs[0]}
	vLo, vHi := math.Inf(1), math.Inf(-1)
	for r := 0; r < t.Len(); r++ {
		x, _ := t.Float(xCol, r)
		y, _ := t.Float(yCol, r)
		v, _ := t.Float(metric, r)
		if !finite(x) || !finite(y) {
			continue
		}
		s.points = append(s.points, point{x: x, y: y, v: v})
		if finite(v) {
			vLo, vHi = math.Min(vLo, v), math.Max(vHi, v)
		}
	}

	p := &Panel{
		spec:   spec,
		series: []series{s},
		axes:   axes,
		xLabel: xCol,
		yLabel: yCol,
		vLo:    vLo,
		vHi:    vHi,
	}
	xLo, xHi, yLo, yHi := bounds(p.series)
	p.x = axes.Add(axislink.Range{Start: xLo, End: xHi, Tag: AxisTag(spec.Tag, xCol)})
	p.y = axes.Add(axislink.Range{Start: yLo, End: yHi, Tag: AxisTag(spec.Tag, yCol)})
	return p, nil
}

func (m *Materializer) visitPanel(spec plotspec.Spec, axes *axislink.Table) (*Panel, error) {
	t := m.src.Catalog().Visit(spec.Category)
	if t == nil {
		return nil, fmt.Errorf("%w %s visits", ErrNoTable, spec.Category)
	}
	if err := plotspec.ValidateAgainst(spec, t); err != nil {
		return nil, err
	}
	if _, ok := t.Column(VisitColumn); !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrMissingColumn, VisitColumn, spec.Category)
	}

	p := &Panel{spec: spec, axes: axes, xLabel: VisitColumn, yLabel: "value"}
	for i, metric := range spec.Metrics {
		s := series{name: metric, glyph: seriesGlyphs[i%len(seriesGlyphs)]}
		for r := 0; r < t.Len(); r++ {
			x, _ := t.Float(VisitColumn, r)
			y, _ := t.Float(metric, r)
			if finite(x) && finite(y) {
				s.points = append(s.points, point{x: x, y: y, v: y})
			}
		}
		p.series = append(p.series, s)
	}
	xLo, xHi, yLo, yHi := bounds(p.series)
	p.x = axes.Add(axislink.Range{Start: xLo, End: xHi, Tag: AxisTag(spec.Tag, VisitColumn)})
	p.y = axes.Add(axislink.Range{Start: yLo, End: yHi, Tag: AxisTag(spec.Tag, "value")})
	return p, nil
}

// AxisTag derives a per-axis link tag from a spec tag. Axes with different
// columns never share a range even when their specs share a tag.
func AxisTag(specTag, column string) string {
	if specTag == "" {
		return ""
	}
	return specTag + "/" + column
}

// bounds returns padded ranges covering every point. Empty series yield
// the unit square.
func bounds(ss []series) (xLo, xHi, yLo, yHi float64) {
	xLo, yLo = math.Inf(1), math.Inf(1)
	xHi, yHi = math.Inf(-1), math.Inf(-1)
	for _, s := range ss {
		for _, p := range s.points {
			xLo, xHi = math.Min(xLo, p.x), math.Max(xHi, p.x)
			yLo, yHi = math.Min(yLo, p.y), math.Max(yHi, p.y)
		}
	}
	xLo, xHi = pad(xLo, xHi)
	yLo, yHi = pad(yLo, yHi)
	return xLo, xHi, yLo, yHi
}

func pad(lo, hi float64) (float64, float64) {
	if lo > hi {
		return 0, 1
	}
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	margin := (hi - lo) * 0.05
	return lo - margin, hi + margin
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
