package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// ManifestFile is the manifest name at the root of a data repository.
const ManifestFile = "qadash.toml"

// Manifest defaults applied when a field is left empty.
const (
	DefaultObjectTable = "analysisCoaddTable_forced"
	DefaultVisitTable  = "visitMatchTable"
	DefaultDatabase    = "catalog.db"
)

// Manifest describes the layout of a data repository: which region (tract)
// it covers, which dataset names hold the object and visit tables, the band
// set, and the flag names published as repository metadata.
type Manifest struct {
	Name       string   `toml:"name"`
	Tract      string   `toml:"tract"`
	Table      string   `toml:"table"`
	VisitTable string   `toml:"visit_table"`
	Database   string   `toml:"database"`
	Categories []string `toml:"categories"`
	Flags      []string `toml:"flags"`
}

// ReadManifest reads dir/qadash.toml and applies defaults.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &RepositoryError{Path: dir, Err: ErrNoManifest}
		}
		return nil, fmt.Errorf("reading %s: %w", ManifestFile, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ManifestFile, err)
	}
	m.applyDefaults()
	return &m, nil
}

// WriteManifest writes m to dir/qadash.toml, creating dir as needed.
func WriteManifest(dir string, m Manifest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	m.applyDefaults()
	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", ManifestFile, err)
	}
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", ManifestFile, err)
	}
	return nil
}

func (m *Manifest) applyDefaults() {
	if m.Table == "" {
		m.Table = DefaultObjectTable
	}
	if m.VisitTable == "" {
		m.VisitTable = DefaultVisitTable
	}
	if m.Database == "" {
		m.Database = DefaultDatabase
	}
	if len(m.Categories) == 0 {
		for _, c := range DefaultCategories() {
			m.Categories = append(m.Categories, string(c))
		}
	}
}

// CategoryList returns the manifest's categories as typed values.
func (m *Manifest) CategoryList() []Category {
	out := make([]Category, len(m.Categories))
	for i, c := range m.Categories {
		out[i] = Category(c)
	}
	return out
}
