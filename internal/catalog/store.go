package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

// schema stores every table column-by-column. A column is keyed by
// (category, dataset, tract, name); its cells are keyed additionally by row.
// NaN values are stored as NULL.
const schema = `
CREATE TABLE IF NOT EXISTS columns (
    category TEXT    NOT NULL,
    dataset  TEXT    NOT NULL,
    tract    TEXT    NOT NULL,
    name     TEXT    NOT NULL,
    kind     TEXT    NOT NULL,
    position INTEGER NOT NULL,
    nrows    INTEGER NOT NULL,
    PRIMARY KEY (category, dataset, tract, name)
);

CREATE TABLE IF NOT EXISTS cells (
    category TEXT    NOT NULL,
    dataset  TEXT    NOT NULL,
    tract    TEXT    NOT NULL,
    name     TEXT    NOT NULL,
    row      INTEGER NOT NULL,
    value    REAL,
    PRIMARY KEY (category, dataset, tract, name, row)
);
`

// Store is an open data repository: its manifest plus the SQLite column
// store it points at.
type Store struct {
	dir      string
	manifest Manifest
	db       *sql.DB
}

// Open opens the repository at dir. A missing path fails with
// ErrRepositoryNotFound wrapped in a *RepositoryError.
func Open(ctx context.Context, dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &RepositoryError{Path: dir, Err: ErrRepositoryNotFound}
		}
		return nil, &RepositoryError{Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &RepositoryError{Path: dir, Err: ErrNotDirectory}
	}

	m, err := ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	return openStore(ctx, dir, *m)
}

// Create initializes a new repository at dir with the given manifest and
// an empty column store. Existing tables in the database are kept.
func Create(ctx context.Context, dir string, m Manifest) (*Store, error) {
	if err := WriteManifest(dir, m); err != nil {
		return nil, err
	}
	m.applyDefaults()
	return openStore(ctx, dir, m)
}

func openStore(ctx context.Context, dir string, m Manifest) (*Store, error) {
	dbPath := filepath.Join(dir, m.Database)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: open database: %w", err)
	}

	// SQLite has a single writer; one pooled connection keeps PRAGMA state
	// consistent across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: set WAL mode: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("catalog: create schema: %w", err)
	}

	return &Store{dir: dir, manifest: m, db: db}, nil
}

// Manifest returns the repository manifest.
func (s *Store) Manifest() Manifest {
	return s.manifest
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads every category's object and visit tables. Bands without
// stored columns map to nil tables rather than failing the load.
func (s *Store) Load(ctx context.Context) (*Catalog, error) {
	c := &Catalog{
		Name:       s.manifest.Name,
		Tract:      s.manifest.Tract,
		Table:      s.manifest.Table,
		Flags:      append([]string(nil), s.manifest.Flags...),
		Categories: s.manifest.CategoryList(),
		Objects:    make(map[Category]*Table),
		Visits:     make(map[Category]*Table),
	}

	for _, cat := range c.Categories {
		obj, err := s.ReadTable(ctx, cat, s.manifest.Table)
		if err != nil {
			return nil, err
		}
		vis, err := s.ReadTable(ctx, cat, s.manifest.VisitTable)
		if err != nil {
			return nil, err
		}
		c.Objects[cat] = obj
		c.Visits[cat] = vis
	}
	return c, nil
}

type columnMeta struct {
	name  string
	kind  ColumnKind
	nrows int
}

// ReadTable reads one dataset of one category for the manifest tract. It
// returns nil, nil when no columns are stored for that key.
func (s *Store) ReadTable(ctx context.Context, cat Category, dataset string) (*Table, error) {
	metas, err := s.columnMetas(ctx, cat, dataset)
	if err != nil {
		return nil, err
	}
	if len(metas) == 0 {
		return nil, nil
	}

	cols := make([]Column, 0, len(metas))
	for _, m := range metas {
		col, err := s.readColumn(ctx, cat, dataset, m)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	t, err := NewTable(cols...)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s/%s: %w", cat, dataset, err)
	}
	return t, nil
}

func (s *Store) columnMetas(ctx context.Context, cat Category, dataset string) ([]columnMeta, error) {
	const q = `
		SELECT name, kind, nrows FROM columns
		WHERE category = ? AND dataset = ? AND tract = ?
		ORDER BY position`
	rows, err := s.db.QueryContext(ctx, q, string(cat), dataset, s.manifest.Tract)
	if err != nil {
		return nil, fmt.Errorf("catalog: list columns %s/%s: %w", cat, dataset, err)
	}
	defer rows.Close()

	var metas []columnMeta
	for rows.Next() {
		var (
			m    columnMeta
			kind string
		)
		if err := rows.Scan(&m.name, &kind, &m.nrows); err != nil {
			return nil, fmt.Errorf("catalog: scan column: %w", err)
		}
		if m.kind, err = ParseColumnKind(kind); err != nil {
			return nil, fmt.Errorf("catalog: column %s: %w", m.name, err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

func (s *Store) readColumn(ctx context.Context, cat Category, dataset string, m columnMeta) (Column, error) {
	const q = `
		SELECT row, value FROM cells
		WHERE category = ? AND dataset = ? AND tract = ? AND name = ?
		ORDER BY row`
	rows, err := s.db.QueryContext(ctx, q, string(cat), dataset, s.manifest.Tract, m.name)
	if err != nil {
		return Column{}, fmt.Errorf("catalog: read column %s: %w", m.name, err)
	}
	defer rows.Close()

	col := Column{Name: m.name, Kind: m.kind}
	if m.kind == KindBool {
		col.Bools = make([]bool, m.nrows)
	} else {
		col.Floats = make([]float64, m.nrows)
		for i := range col.Floats {
			col.Floats[i] = math.NaN()
		}
	}

	for rows.Next() {
		var (
			row int
			v   sql.NullFloat64
		)
		if err := rows.Scan(&row, &v); err != nil {
			return Column{}, fmt.Errorf("catalog: scan cell %s: %w", m.name, err)
		}
		if row < 0 || row >= m.nrows {
			return Column{}, fmt.Errorf("catalog: column %s: row %d out of range", m.name, row)
		}
		if m.kind == KindBool {
			col.Bools[row] = v.Valid && v.Float64 != 0
		} else if v.Valid {
			col.Floats[row] = v.Float64
		}
	}
	return col, rows.Err()
}

// WriteTable replaces the stored columns of one dataset for a category in
// a single transaction.
func (s *Store) WriteTable(ctx context.Context, cat Category, dataset string, t *Table) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	key := []any{string(cat), dataset, s.manifest.Tract}
	if _, err := tx.ExecContext(ctx, "DELETE FROM columns WHERE category = ? AND dataset = ? AND tract = ?", key...); err != nil {
		return fmt.Errorf("catalog: clear columns: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM cells WHERE category = ? AND dataset = ? AND tract = ?", key...); err != nil {
		return fmt.Errorf("catalog: clear cells: %w", err)
	}

	colStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO columns (category, dataset, tract, name, kind, position, nrows)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("catalog: prepare column insert: %w", err)
	}
	defer colStmt.Close()

	cellStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cells (category, dataset, tract, name, row, value)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("catalog: prepare cell insert: %w", err)
	}
	defer cellStmt.Close()

	for pos, c := range t.cols {
		if _, err := colStmt.ExecContext(ctx, string(cat), dataset, s.manifest.Tract, c.Name, c.Kind.String(), pos, c.Len()); err != nil {
			return fmt.Errorf("catalog: insert column %s: %w", c.Name, err)
		}
		for row := 0; row < c.Len(); row++ {
			var v any
			if c.Kind == KindBool {
				if c.Bools[row] {
					v = 1.0
				} else {
					v = 0.0
				}
			} else if f := c.Floats[row]; !math.IsNaN(f) {
				v = f
			}
			if _, err := cellStmt.ExecContext(ctx, string(cat), dataset, s.manifest.Tract, c.Name, row, v); err != nil {
				return fmt.Errorf("catalog: insert cell %s[%d]: %w", c.Name, row, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("catalog: commit: %w", err)
	}
	return nil
}

// Load opens the repository at dir, reads it fully and closes it.
func Load(ctx context.Context, dir string) (*Catalog, error) {
	s, err := Open(ctx, dir)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.Load(ctx)
}

// Write stores a whole catalog as a repository at dir.
func Write(ctx context.Context, dir string, c *Catalog) error {
	cats := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		cats[i] = string(cat)
	}
	s, err := Create(ctx, dir, Manifest{
		Name:       c.Name,
		Tract:      c.Tract,
		Table:      c.Table,
		Categories: cats,
		Flags:      c.Flags,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	m := s.Manifest()
	for _, cat := range c.Categories {
		if t := c.Objects[cat]; t != nil {
			if err := s.WriteTable(ctx, cat, m.Table, t); err != nil {
				return err
			}
		}
		if t := c.Visits[cat]; t != nil {
			if err := s.WriteTable(ctx, cat, m.VisitTable, t); err != nil {
				return err
			}
		}
	}
	return nil
}
