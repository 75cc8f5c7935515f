package features

import "gonum.org/v1/gonum/floats"

// Normalize rescales every column to [0, 1] with min-max scaling:
// (v - min) / (max - min). A constant column has no range and maps to 0.0
// instead of NaN. Row labels are kept.
func Normalize(t *Table) *Table {
	out := t.emptyLike()
	out.labels = t.Labels()
	for c, col := range t.data {
		scaled := make([]float64, len(col))
		if len(col) > 0 {
			lo, hi := floats.Min(col), floats.Max(col)
			if span := hi - lo; span != 0 {
				for i, v := range col {
					scaled[i] = (v - lo) / span
				}
			}
		}
		out.data[c] = scaled
	}
	return out
}
