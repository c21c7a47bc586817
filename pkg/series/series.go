// Package series builds the derived series that control limits and the rule
// scanner operate on: per-subgroup means and ranges for X-bar/R charts, or
// individual values and moving ranges for I-MR charts.  It also keeps the
// mapping from each derived point back to the raw rows that produced it so
// per-row statuses can be attributed after anomaly detection.
package series

import (
	"fmt"

	"github.com/dkinsey/spc/pkg/stat"
)

// InsufficientDataError is returned when the input cannot produce a usable
// derived series: zero subgroups formed for X-bar/R, or fewer than two
// individual values for I-MR.
type InsufficientDataError struct {
	Need int
	Have int
	Kind string
}

func (e InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: need at least %d %s, have %d", e.Need, e.Kind, e.Have)
}

// Subgroup is an ordered batch of measurements taken at one sampling
// occasion.  Rows records the raw row indexes the measurements came from.
type Subgroup struct {
	Values []float64
	Rows   []int
}

// Derived is the ordered per-point statistics addressed by anomaly records.
// Primary holds subgroup means (X-bar/R) or individual values (I-MR).
// Variability holds subgroup ranges, or moving ranges for I-MR where entry i
// is |x[i+1]-x[i]| and the slice is one shorter than Primary.  Rows[i] lists
// the raw row indexes attributed to point i.
type Derived struct {
	Primary     []float64 `json:"primary"`
	Variability []float64 `json:"variability"`
	Rows        [][]int   `json:"-"`
}

// Form applies the subgroup formation policy to raw rows.  If a row's width
// equals size the row is one subgroup; width-1 rows are chunked into
// consecutive subgroups of size with a trailing partial chunk discarded;
// otherwise the first size values of the row are used, skipping rows that
// are too short.  A row of width other than 1 discards any partial chunk
// accumulated from preceding width-1 rows.
func Form(rows [][]float64, size int) ([]Subgroup, error) {
	var groups []Subgroup
	var chunk Subgroup

	for i, row := range rows {
		switch {
		case len(row) == size:
			chunk = Subgroup{}
			groups = append(groups, Subgroup{Values: append([]float64{}, row...), Rows: []int{i}})
		case len(row) == 1:
			chunk.Values = append(chunk.Values, row[0])
			chunk.Rows = append(chunk.Rows, i)
			if len(chunk.Values) == size {
				groups = append(groups, chunk)
				chunk = Subgroup{}
			}
		case len(row) > size:
			chunk = Subgroup{}
			groups = append(groups, Subgroup{Values: append([]float64{}, row[:size]...), Rows: []int{i}})
		default:
			// row too short to form a subgroup
			chunk = Subgroup{}
		}
	}

	if len(groups) == 0 {
		return nil, InsufficientDataError{Need: 1, Have: 0, Kind: "subgroups"}
	}
	return groups, nil
}

// FromSubgroups derives the mean and range series from formed subgroups.
func FromSubgroups(groups []Subgroup) Derived {
	d := Derived{
		Primary:     make([]float64, len(groups)),
		Variability: make([]float64, len(groups)),
		Rows:        make([][]int, len(groups)),
	}
	for i, g := range groups {
		d.Primary[i] = stat.Mean(g.Values)
		d.Variability[i] = stat.Range(g.Values)
		d.Rows[i] = g.Rows
	}
	return d
}

// Individuals derives the individual-value and moving-range series from raw
// rows.  Values are taken in row order, flattened, and each point records
// its source row.
func Individuals(rows [][]float64) (Derived, error) {
	var d Derived
	for i, row := range rows {
		for _, v := range row {
			d.Primary = append(d.Primary, v)
			d.Rows = append(d.Rows, []int{i})
		}
	}
	if len(d.Primary) < 2 {
		return Derived{}, InsufficientDataError{Need: 2, Have: len(d.Primary), Kind: "individual values"}
	}
	d.Variability = make([]float64, len(d.Primary)-1)
	for i := 1; i < len(d.Primary); i++ {
		mr := d.Primary[i] - d.Primary[i-1]
		if mr < 0 {
			mr = -mr
		}
		d.Variability[i-1] = mr
	}
	return d, nil
}

// Flatten returns every measurement in row order.  Capability indices are
// computed over this population, not over subgroup statistics.
func Flatten(rows [][]float64) []float64 {
	var out []float64
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}
