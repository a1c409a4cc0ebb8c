package catalog

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// SampleTract is the region id of the generated sample repository.
const SampleTract = "9615"

// sampleMetrics are the QA metric columns of the sample object tables.
var sampleMetrics = []string{
	"base_Footprint_nPix",
	"Gaussian-PSF_magDiff_mmag",
	"CModel-PSF_magDiff_mmag",
	"traceSdss_pixel",
	"e1ResidsSdss_milli",
	"e2ResidsSdss_milli",
}

// sampleFlags are the flag columns of the sample object tables.
var sampleFlags = []string{
	"calib_psf_used",
	"qaBad_flag",
	"merge_peak_sky",
	"base_PixelFlags_flag_saturated",
}

// Sample builds a deterministic catalog of rows objects per band. The same
// seed always produces the same values.
func Sample(seed uint64, rows int) *Catalog {
	c := &Catalog{
		Name:       "sample",
		Tract:      SampleTract,
		Table:      DefaultObjectTable,
		Flags:      append([]string(nil), sampleFlags...),
		Categories: DefaultCategories(),
		Objects:    make(map[Category]*Table),
		Visits:     make(map[Category]*Table),
	}
	for i, cat := range c.Categories {
		rng := rand.New(rand.NewPCG(seed, uint64(i)))
		c.Objects[cat] = sampleObjects(rng, rows)
		c.Visits[cat] = sampleVisits(rng, i)
	}
	return c
}

func sampleObjects(rng *rand.Rand, rows int) *Table {
	ids := make([]float64, rows)
	patch := make([]float64, rows)
	tract := make([]float64, rows)
	ra := make([]float64, rows)
	dec := make([]float64, rows)
	mag := make([]float64, rows)
	for r := 0; r < rows; r++ {
		ids[r] = float64(r + 1)
		patch[r] = float64(rng.IntN(9))
		tract[r] = 9615
		ra[r] = 216.0 + rng.Float64()*1.5
		dec[r] = -0.5 + rng.Float64()*1.5
		mag[r] = 17 + rng.Float64()*9
	}

	cols := []Column{
		FloatColumn("objectId", ids),
		FloatColumn("patch", patch),
		FloatColumn("tract", tract),
		FloatColumn("ra", ra),
		FloatColumn("dec", dec),
		FloatColumn("psfMag", mag),
	}
	for m, name := range sampleMetrics {
		vals := make([]float64, rows)
		for r := range vals {
			// Scatter grows toward faint magnitudes, as real residuals do.
			scale := 1 + (mag[r]-17)/3
			vals[r] = float64(m)*0.5 + rng.NormFloat64()*scale
			if rng.IntN(200) == 0 {
				vals[r] = math.NaN()
			}
		}
		cols = append(cols, FloatColumn(name, vals))
	}
	for f, name := range sampleFlags {
		vals := make([]bool, rows)
		for r := range vals {
			vals[r] = rng.IntN(10) < 2+f
		}
		cols = append(cols, BoolColumn(name, vals))
	}

	t, err := NewTable(cols...)
	if err != nil {
		panic(fmt.Sprintf("catalog: sample table: %v", err))
	}
	return t
}

func sampleVisits(rng *rand.Rand, band int) *Table {
	const visits = 12
	visit := make([]float64, visits)
	tract := make([]float64, visits)
	cols := make([][]float64, len(sampleMetrics))
	for m := range cols {
		cols[m] = make([]float64, visits)
	}
	for v := 0; v < visits; v++ {
		visit[v] = float64(1000 + band*100 + v*2)
		tract[v] = 9615
		for m := range cols {
			cols[m][v] = float64(m)*0.5 + rng.NormFloat64()*0.3
		}
	}

	out := []Column{FloatColumn("visit", visit), FloatColumn("tract", tract)}
	for m, name := range sampleMetrics {
		out = append(out, FloatColumn(name, cols[m]))
	}
	t, err := NewTable(out...)
	if err != nil {
		panic(fmt.Sprintf("catalog: sample visits: %v", err))
	}
	return t
}
