package features

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// AddAccelerationMagnitude appends "{i}.acc_magnitude" = sqrt(x²+y²+z²) for
// every sensor position 0..MaxSensors-1 not listed in skip. Each such
// position must have its three acceleration columns. New columns follow the
// existing ones in ascending sensor order; rows are unchanged.
func AddAccelerationMagnitude(t *Table, skip []int) (*Table, error) {
	skipped := make(map[int]bool, len(skip))
	for _, s := range skip {
		skipped[s] = true
	}

	type source struct {
		name    string
		x, y, z int
	}
	var sources []source
	for i := 0; i < MaxSensors; i++ {
		if skipped[i] {
			continue
		}
		name := ColumnName(i, AccMagnitude)
		if t.HasColumn(name) {
			return nil, fmt.Errorf("%w: %s", ErrColumnExists, name)
		}
		src := source{name: name}
		for _, axis := range []struct {
			f   Field
			dst *int
		}{{AccX, &src.x}, {AccY, &src.y}, {AccZ, &src.z}} {
			col := ColumnName(i, axis.f)
			idx, ok := t.ColumnIndex(col)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
			}
			*axis.dst = idx
		}
		sources = append(sources, src)
	}

	out := t.project(func(string) bool { return true })
	v := make([]float64, 3)
	for _, src := range sources {
		mags := make([]float64, t.Len())
		for r := range mags {
			v[0], v[1], v[2] = t.data[src.x][r], t.data[src.y][r], t.data[src.z][r]
			mags[r] = floats.Norm(v, 2)
		}
		out.index[src.name] = len(out.columns)
		out.columns = append(out.columns, src.name)
		out.data = append(out.data, mags)
	}
	return out, nil
}
