package features

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// RollingAverage replaces each column with its trailing mean over size rows.
// Only complete windows are emitted, so the result has Len()-size+1 rows
// (none when size exceeds the row count), relabelled 0..n-1.
func RollingAverage(t *Table, size int) (*Table, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindowSize, size)
	}
	out := t.emptyLike()
	n := t.Len() - size + 1
	if n <= 0 {
		return out, nil
	}
	for c, col := range t.data {
		means := make([]float64, n)
		for i := range means {
			means[i] = stat.Mean(col[i:i+size], nil)
		}
		out.data[c] = means
	}
	out.labels = sequence(n)
	return out, nil
}
