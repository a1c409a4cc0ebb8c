// Package plotspec derives plot specifications from the metric selection.
// Generation is a pure function: the same selection always yields the same
// specs in the same order.
package plotspec

import (
	"errors"

	"github.com/papapumpkin/qadash/internal/catalog"
)

// Role is the kind of panel a spec describes.
type Role string

const (
	// RoleDetail is a per-metric scatter of the metric against magnitude.
	RoleDetail Role = "detail"
	// RoleTopAggregate is the per-visit summary of all selected metrics.
	RoleTopAggregate Role = "top-aggregate"
	// RoleSky is a per-metric sky map over ra and dec.
	RoleSky Role = "sky"
)

// Axis tag prefixes. Specs sharing a tag have their ranges linked.
const (
	visitTagPrefix  = "visit:"
	metricTagPrefix = "metric:"
)

// ErrUnknownMetric indicates a spec names a metric the dataset does not have.
var ErrUnknownMetric = errors.New("unknown metric")

// MetricRef identifies one metric of one category.
type MetricRef struct {
	Category catalog.Category
	Name     string
}

// Spec describes one plot panel.
type Spec struct {
	Role     Role
	Category catalog.Category
	// Metrics holds every selected metric for top-aggregate specs and
	// exactly one metric otherwise.
	Metrics []string
	// Tag groups specs whose axis ranges are linked.
	Tag string
}

// Metric returns the single metric of a detail or sky spec.
func (s Spec) Metric() string {
	if len(s.Metrics) == 0 {
		return ""
	}
	return s.Metrics[0]
}

// Ref returns the metric reference of a detail or sky spec.
func (s Spec) Ref() MetricRef {
	return MetricRef{Category: s.Category, Name: s.Metric()}
}

// Refs returns a reference for every metric the spec names.
func (s Spec) Refs() []MetricRef {
	out := make([]MetricRef, len(s.Metrics))
	for i, m := range s.Metrics {
		out[i] = MetricRef{Category: s.Category, Name: m}
	}
	return out
}

// Label is the panel title shown in tabs and headers.
func (s Spec) Label() string {
	if s.Role == RoleTopAggregate {
		return string(s.Category) + " - visits"
	}
	return string(s.Category) + " - " + s.Metric()
}

// VisitTag is the tag shared by every category's top-aggregate spec.
func VisitTag(domain string) string {
	return visitTagPrefix + domain
}

// MetricTag is the tag shared by every detail and sky spec of one metric.
func MetricTag(metric string) string {
	return metricTagPrefix + metric
}

// Generate builds the spec list. For each category in order with at least
// one selected metric it emits one top-aggregate spec, then a detail and a
// sky spec for every metric in selection order. visitDomain is the region id
// used for the shared visit-axis tag.
func Generate(selected map[catalog.Category][]string, categories []catalog.Category, visitDomain string) []Spec {
	var specs []Spec
	for _, cat := range categories {
		metrics := selected[cat]
		if len(metrics) == 0 {
			continue
		}
		specs = append(specs, Spec{
			Role:     RoleTopAggregate,
			Category: cat,
			Metrics:  append([]string(nil), metrics...),
			Tag:      VisitTag(visitDomain),
		})
		for _, m := range metrics {
			tag := MetricTag(m)
			specs = append(specs,
				Spec{Role: RoleDetail, Category: cat, Metrics: []string{m}, Tag: tag},
				Spec{Role: RoleSky, Category: cat, Metrics: []string{m}, Tag: tag},
			)
		}
	}
	return specs
}

// Filter returns the specs with the given role, preserving order.
func Filter(specs []Spec, role Role) []Spec {
	var out []Spec
	for _, s := range specs {
		if s.Role == role {
			out = append(out, s)
		}
	}
	return out
}
