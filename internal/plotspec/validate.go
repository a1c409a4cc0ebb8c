package plotspec

import (
	"slices"

	"github.com/papapumpkin/qadash/internal/catalog"
)

// UnknownMetricError reports a spec metric missing from its category.
type UnknownMetricError struct {
	Ref MetricRef
}

// Error names the missing metric and its category.
func (e *UnknownMetricError) Error() string {
	return string(e.Ref.Category) + ": " + ErrUnknownMetric.Error() + " " + e.Ref.Name
}

// Unwrap returns ErrUnknownMetric.
func (e *UnknownMetricError) Unwrap() error {
	return ErrUnknownMetric
}

// Validate checks every metric of spec against the names the category's
// table offers. It is called when a spec is consumed, not when it is made.
func Validate(spec Spec, known []string) error {
	for _, ref := range spec.Refs() {
		if !slices.Contains(known, ref.Name) {
			return &UnknownMetricError{Ref: ref}
		}
	}
	return nil
}

// ValidateAgainst checks spec against the metrics of t.
func ValidateAgainst(spec Spec, t *catalog.Table) error {
	return Validate(spec, t.Metrics())
}
