package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/metrics"
	"github.com/papapumpkin/qadash/internal/query"
	"github.com/papapumpkin/qadash/internal/status"
	"github.com/papapumpkin/qadash/internal/telemetry"
)

// Query returns the shared free-text query.
func (s *Session) Query() string {
	return s.query
}

// FilterState returns a copy of the filter state applied to category: its
// flag clauses plus the shared query.
func (s *Session) FilterState(cat catalog.Category) query.FilterState {
	var fs query.FilterState
	if cur, ok := s.flags[cat]; ok {
		fs = cur.Clone()
	}
	fs.SetQuery(s.query)
	return fs
}

// PredicateText returns the text of the predicate currently filtering
// category, or "" when the category shows its raw table.
func (s *Session) PredicateText(cat catalog.Category) string {
	return s.view.Predicate(cat).Text()
}

func (s *Session) flagState(cat catalog.Category) *query.FilterState {
	fs, ok := s.flags[cat]
	if !ok {
		fs = &query.FilterState{}
		s.flags[cat] = fs
	}
	return fs
}

// AddFlag sets name==value on the given categories, or on every category
// when none are named, then recompiles. The returned error is the filter
// failure, if any, already reported as a status message.
func (s *Session) AddFlag(name string, value bool, cats ...catalog.Category) error {
	if len(cats) == 0 {
		cats = s.Categories()
	}
	for _, c := range cats {
		s.flagState(c).SetFlag(name, value)
	}
	s.push(status.Info("Added Flag Filter", fmt.Sprintf("%s : %s", name, pyBool(value))))
	s.log.Info("flag filter added", "flag", name, "value", value, "categories", len(cats))
	return s.recompile()
}

// RemoveFlag drops the flag clause for name from the given categories, or
// from every category that has it when none are named. Removing a flag
// that is not set fails with *query.UnknownFlagError, leaves every filter
// state unchanged and posts a warning.
func (s *Session) RemoveFlag(name string, cats ...catalog.Category) error {
	if len(cats) == 0 {
		for _, c := range s.Categories() {
			if fs, ok := s.flags[c]; ok && fs.HasFlag(name) {
				cats = append(cats, c)
			}
		}
	}

	var err error
	if len(cats) == 0 {
		err = &query.UnknownFlagError{Name: name}
	}
	for _, c := range cats {
		if fs, ok := s.flags[c]; !ok || !fs.HasFlag(name) {
			err = &query.UnknownFlagError{Name: name}
			break
		}
	}
	if err != nil {
		s.push(status.Warning("Flag Filter Not Set", fmt.Sprintf("%s is not an active flag filter", name)))
		s.log.Warn("flag filter removal rejected", "flag", name, "err", err)
		return err
	}

	for _, c := range cats {
		if err := s.flags[c].RemoveFlag(name); err != nil {
			return err
		}
	}
	s.push(status.Info("Removed Flag Filter", name))
	s.log.Info("flag filter removed", "flag", name, "categories", len(cats))
	return s.recompile()
}

// SetQuery replaces the shared query and recompiles every category.
func (s *Session) SetQuery(text string) error {
	s.query = text
	s.log.Info("query set", "query", text)
	return s.recompile()
}

// ClearQuery empties the shared query and recompiles every category.
func (s *Session) ClearQuery() error {
	return s.SetQuery("")
}

// Refilter recompiles every category against the current filter states.
func (s *Session) Refilter() error {
	return s.recompile()
}

// recompile rebuilds each category's predicate in iteration order and
// swaps in the filtered view. The first failure stops the pass: categories
// after it keep their previous view, and exactly one "Filtering Error"
// message is posted. Plot specs are regenerated either way.
func (s *Session) recompile() error {
	start := time.Now()
	var failed error

	for _, c := range s.view.Categories() {
		var fs query.FilterState
		if cur, ok := s.flags[c]; ok {
			fs = cur.Clone()
		}
		fs.SetQuery(s.query)

		p, err := fs.Compile()
		if err == nil {
			err = s.view.Recompute(c, p)
		}
		if err != nil {
			var fce *query.FilterCompileError
			if errors.As(err, &fce) && fce.Category == "" {
				fce.Category = string(c)
			}
			failed = err
			s.push(status.FromError("Filtering Error", s.path, err))
			s.log.Error("filter recompute failed", "category", c, "err", err)
			s.record(telemetry.KindFilterFailed, string(c), map[string]string{"error": err.Error()})
			s.met.Recompute(string(c), metrics.OutcomeFailed)
			break
		}

		outcome := metrics.OutcomeApplied
		if p.Identity() {
			outcome = metrics.OutcomeCleared
		}
		s.met.Recompute(string(c), outcome)
		s.log.Debug("filter recomputed", "category", c, "predicate", p.String(), "rows", s.view.ActiveView(c).Len())
		s.record(telemetry.KindFilterApplied, string(c), map[string]any{
			"predicate": p.Text(),
			"rows":      s.view.ActiveView(c).Len(),
		})
	}

	s.met.ObserveRecompute(time.Since(start))
	s.regenerate()
	return failed
}

func pyBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}
