package catalog

// VisitsDataset labels per-visit tables in validation errors.
const VisitsDataset = "visits"

// objectColumns are the columns every object table must carry to be
// plotted.
func objectColumns() []string {
	return []string{"ra", "dec", "psfMag"}
}

// Validate checks that every category of c can be plotted: each has an
// object table with coordinates, magnitudes and at least one metric, each
// published flag is a boolean column, and each has a visit table keyed by
// visit. It returns every problem found, in category order.
func Validate(c *Catalog) []error {
	var errs []error
	for _, cat := range c.Categories {
		errs = append(errs, validateObjects(c, cat)...)
		errs = append(errs, validateVisits(c, cat)...)
	}
	return errs
}

func validateObjects(c *Catalog, cat Category) []error {
	t := c.Object(cat)
	if t == nil {
		return []error{&ValidationError{Category: cat, Dataset: c.Table, Err: ErrMissingTable}}
	}

	var errs []error
	for _, name := range objectColumns() {
		if _, ok := t.Column(name); !ok {
			errs = append(errs, &ValidationError{Category: cat, Dataset: c.Table, Field: name, Err: ErrMissingColumn})
		}
	}
	if len(t.Metrics()) == 0 {
		errs = append(errs, &ValidationError{Category: cat, Dataset: c.Table, Err: ErrNoMetrics})
	}
	for _, flag := range c.Flags {
		col, ok := t.Column(flag)
		switch {
		case !ok:
			errs = append(errs, &ValidationError{Category: cat, Dataset: c.Table, Field: flag, Err: ErrMissingColumn})
		case col.Kind != KindBool:
			errs = append(errs, &ValidationError{Category: cat, Dataset: c.Table, Field: flag, Err: ErrFlagNotBool})
		}
	}
	return errs
}

func validateVisits(c *Catalog, cat Category) []error {
	t := c.Visit(cat)
	if t == nil {
		return []error{&ValidationError{Category: cat, Dataset: VisitsDataset, Err: ErrMissingTable}}
	}
	if _, ok := t.Column("visit"); !ok {
		return []error{&ValidationError{Category: cat, Dataset: VisitsDataset, Field: "visit", Err: ErrMissingColumn}}
	}
	return nil
}
