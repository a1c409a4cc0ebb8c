package session

import (
	"context"
	"time"

	"github.com/papapumpkin/qadash/internal/catalog"
	"github.com/papapumpkin/qadash/internal/query"
	"github.com/papapumpkin/qadash/internal/status"
	"github.com/papapumpkin/qadash/internal/telemetry"
)

// readyDuration is how long the "Data Ready" confirmation stays up.
const readyDuration = 3 * time.Second

// LoadRepository loads the repository at path and installs it. On failure
// the previously loaded data stays in place and a "Data Loading Error"
// message names the path and cause.
func (s *Session) LoadRepository(ctx context.Context, path string) error {
	s.push(status.Info("Load Data Start...", path))
	s.log.Info("loading repository", "path", path)

	cat, err := catalog.Load(ctx, path)
	if err != nil {
		s.push(status.FromError("Data Loading Error", path, err))
		s.log.Error("repository load failed", "path", path, "err", err)
		s.record(telemetry.KindLoadFailed, "", map[string]string{"path": path, "error": err.Error()})
		return err
	}

	s.Install(cat, path)
	s.push(status.Success("Data Ready", path).WithDuration(readyDuration))
	return nil
}

// Install swaps in an already loaded catalog. Filter states and selections
// survive for categories the new catalog still has; filters are recompiled
// against the new tables and plot specs are regenerated.
func (s *Session) Install(cat *catalog.Catalog, path string) {
	s.cat = cat
	s.path = path
	s.view.Replace(cat)

	kept := make(map[catalog.Category]*query.FilterState, len(cat.Categories))
	for _, c := range cat.Categories {
		if fs, ok := s.flags[c]; ok {
			kept[c] = fs
		}
	}
	s.flags = kept

	selected := s.sel.All()
	s.quiet = true
	s.sel.Reset()
	for _, c := range cat.Categories {
		if m, ok := selected[c]; ok {
			s.sel.Set(c, m)
		}
	}
	s.quiet = false

	rows := make(map[string]int, len(cat.Categories))
	for _, c := range cat.Categories {
		n := cat.Object(c).Len()
		rows[string(c)] = n
		s.met.LoadedRows(string(c), n)
	}
	s.log.Info("repository loaded", "path", path, "tract", cat.Tract, "categories", len(cat.Categories))
	s.record(telemetry.KindRepositoryLoaded, "", map[string]any{"path": path, "tract": cat.Tract, "rows": rows})

	_ = s.recompile()
}
