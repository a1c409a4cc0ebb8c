// Package catalog holds the per-band QA tables of a data repository and the
// columnar store they are loaded from. A Catalog is loaded once and replaced
// wholesale on reload; its tables are never mutated.
package catalog

// Category identifies one independent per-band dataset partition.
type Category string

// DefaultCategories is the band set used when a manifest does not name one.
// Order is the iteration order used everywhere in the engine.
func DefaultCategories() []Category {
	return []Category{"HSC-R", "HSC-Z", "HSC-I", "HSC-G"}
}

// Catalog is a loaded data repository.
type Catalog struct {
	Name  string
	Tract string
	// Table is the object dataset name, e.g. analysisCoaddTable_forced.
	Table string
	// Flags is the flag list published in the repository metadata. It is
	// the set of names offered for flag filters.
	Flags      []string
	Categories []Category
	Objects    map[Category]*Table
	Visits     map[Category]*Table
}

// Object returns the raw object table for a category, or nil when the band
// is missing from the repository.
func (c *Catalog) Object(cat Category) *Table {
	if c == nil {
		return nil
	}
	return c.Objects[cat]
}

// Visit returns the per-visit table for a category, or nil.
func (c *Catalog) Visit(cat Category) *Table {
	if c == nil {
		return nil
	}
	return c.Visits[cat]
}

// HasCategory reports whether cat is one of the catalog's categories.
func (c *Catalog) HasCategory(cat Category) bool {
	if c == nil {
		return false
	}
	for _, k := range c.Categories {
		if k == cat {
			return true
		}
	}
	return false
}

// AvailableMetrics returns the selectable metric names for a category. A
// missing band yields nil.
func (c *Catalog) AvailableMetrics(cat Category) []string {
	return c.Object(cat).Metrics()
}

// Summary holds the repository counts shown in the dashboard info bar.
type Summary struct {
	Tracts        int
	Patches       int
	Visits        int
	UniqueObjects int
}

// Summary computes info-bar counts across every category.
func (c *Catalog) Summary() Summary {
	var s Summary
	if c == nil {
		return s
	}
	tracts := make(map[float64]struct{})
	patches := make(map[float64]struct{})
	visits := make(map[float64]struct{})
	objects := make(map[float64]struct{})
	maxRows := 0
	for _, cat := range c.Categories {
		obj := c.Objects[cat]
		merge(tracts, obj.distinctValues("tract"))
		merge(patches, obj.distinctValues("patch"))
		merge(objects, obj.distinctValues("objectId"))
		merge(visits, c.Visits[cat].distinctValues("visit"))
		if obj.Len() > maxRows {
			maxRows = obj.Len()
		}
	}
	s.Tracts = len(tracts)
	if s.Tracts == 0 && c.Tract != "" {
		s.Tracts = 1
	}
	s.Patches = len(patches)
	s.Visits = len(visits)
	s.UniqueObjects = len(objects)
	if s.UniqueObjects == 0 {
		s.UniqueObjects = maxRows
	}
	return s
}

func merge(dst, src map[float64]struct{}) {
	for k := range src {
		dst[k] = struct{}{}
	}
}
