package features

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, names []string, cols ...[]float64) *Table {
	t.Helper()
	tbl, err := FromColumns(names, cols)
	require.NoError(t, err)
	return tbl
}

func TestNormalize(t *testing.T) {
	in := mustTable(t, []string{"col1", "col2"}, []float64{1, 2}, []float64{3, 4})

	got := Normalize(in)

	c1, _ := got.Column("col1")
	c2, _ := got.Column("col2")
	assert.Equal(t, []float64{0, 1}, c1)
	assert.Equal(t, []float64{0, 1}, c2)

	// input untouched
	orig, _ := in.Column("col1")
	assert.Equal(t, []float64{1, 2}, orig)
}

func TestNormalize_Bounds(t *testing.T) {
	in := mustTable(t, []string{"a", "b"},
		[]float64{-3, 7, 2.5, 0, 11},
		[]float64{0.1, 0.4, 0.2, 0.9, 0.3})

	got := Normalize(in)
	for _, s := range got.Summary() {
		assert.Equal(t, 0.0, s.Min, s.Column)
		assert.Equal(t, 1.0, s.Max, s.Column)
	}
}

func TestNormalize_ConstantColumn(t *testing.T) {
	in := mustTable(t, []string{"flat", "ramp"}, []float64{5, 5, 5}, []float64{0, 1, 2})

	got := Normalize(in)

	flat, _ := got.Column("flat")
	assert.Equal(t, []float64{0, 0, 0}, flat)
	for _, v := range flat {
		assert.False(t, math.IsNaN(v))
	}
	ramp, _ := got.Column("ramp")
	assert.Equal(t, []float64{0, 0.5, 1}, ramp)
}

func TestNormalize_Empty(t *testing.T) {
	in := mustTable(t, []string{"a"}, []float64{})
	got := Normalize(in)
	assert.Equal(t, 0, got.Len())
	assert.Equal(t, []string{"a"}, got.Columns())
}

func TestRollingAverage(t *testing.T) {
	in := mustTable(t, []string{"col1", "col2"}, []float64{1, 2, 3}, []float64{4, 5, 6})

	got, err := RollingAverage(in, 3)
	require.NoError(t, err)

	require.Equal(t, 1, got.Len())
	assert.Equal(t, []float64{2, 5}, got.Row(0))
	assert.Equal(t, []int{0}, got.Labels())
}

func TestRollingAverage_Length(t *testing.T) {
	col := []float64{1, 4, 9, 16, 25, 36}
	in := mustTable(t, []string{"v"}, col)

	for w := 1; w <= 8; w++ {
		got, err := RollingAverage(in, w)
		require.NoError(t, err)

		want := max(0, len(col)-w+1)
		require.Equal(t, want, got.Len(), "window %d", w)
		vals, _ := got.Column("v")
		for i, v := range vals {
			var sum float64
			for _, x := range col[i : i+w] {
				sum += x
			}
			assert.InDelta(t, sum/float64(w), v, 1e-12)
		}
	}
}

func TestRollingAverage_InvalidSize(t *testing.T) {
	in := mustTable(t, []string{"v"}, []float64{1})
	for _, size := range []int{0, -2} {
		_, err := RollingAverage(in, size)
		assert.True(t, errors.Is(err, ErrInvalidWindowSize))
	}
}

func TestAddAccelerationMagnitude(t *testing.T) {
	in := mustTable(t, []string{"0.acc_x", "0.acc_y", "0.acc_z"},
		[]float64{1, 2}, []float64{3, 4}, []float64{5, 6})

	got, err := AddAccelerationMagnitude(in, []int{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)

	mag, ok := got.Column("0.acc_magnitude")
	require.True(t, ok)
	want := []float64{math.Sqrt(1 + 9 + 25), math.Sqrt(4 + 16 + 36)}
	if diff := cmp.Diff(want, mag, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("magnitude mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, in.HasColumn("0.acc_magnitude"))
}

func TestAddAccelerationMagnitude_ColumnOrder(t *testing.T) {
	merged, err := Merge([]Reading{reading("a", 1, 1), reading("b", 1, 2)}, []string{"a", "b"})
	require.NoError(t, err)

	got, err := AddAccelerationMagnitude(merged, []int{2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)

	cols := got.Columns()
	require.Len(t, cols, 14)
	assert.Equal(t, []string{"0.acc_magnitude", "1.acc_magnitude"}, cols[12:])
	assert.Equal(t, 1, got.Len())
}

func TestAddAccelerationMagnitude_Errors(t *testing.T) {
	in := mustTable(t, []string{"0.acc_x", "0.acc_y"}, []float64{1}, []float64{2})
	_, err := AddAccelerationMagnitude(in, []int{1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.True(t, errors.Is(err, ErrMissingColumn), "got %v", err)

	full := mustTable(t, []string{"0.acc_x", "0.acc_y", "0.acc_z"}, []float64{1}, []float64{2}, []float64{3})
	_, err = AddAccelerationMagnitude(full, nil)
	assert.True(t, errors.Is(err, ErrMissingColumn), "sensor 1 has no columns: %v", err)

	once, err := AddAccelerationMagnitude(full, []int{1, 2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)
	_, err = AddAccelerationMagnitude(once, []int{1, 2, 3, 4, 5, 6, 7, 8, 9})
	assert.True(t, errors.Is(err, ErrColumnExists), "got %v", err)
}

func TestDropSensors(t *testing.T) {
	in := mustTable(t, []string{"0.acc_x", "0.acc_y", "0.acc_z", "0.gyro_x", "0.gyro_y", "0.gyro_z", "foo"},
		[]float64{1}, []float64{2}, []float64{3}, []float64{4}, []float64{5}, []float64{6}, []float64{7})

	got, err := DropSensors(in, []int{0})
	require.NoError(t, err)

	assert.Equal(t, []string{"foo"}, got.Columns())
	assert.Equal(t, []float64{7}, got.Row(0))
	assert.Equal(t, 7, in.NumColumns())
}

func TestDropSensors_WithMagnitude(t *testing.T) {
	in := mustTable(t, []string{"0.acc_x", "0.acc_y", "0.acc_z", "0.gyro_x", "0.gyro_y", "0.gyro_z", "0.acc_magnitude"},
		[]float64{1}, []float64{2}, []float64{3}, []float64{4}, []float64{5}, []float64{6}, []float64{7})

	got, err := DropSensors(in, []int{0})
	require.NoError(t, err)
	assert.Equal(t, 0, got.NumColumns())
}

func TestDropSensors_Missing(t *testing.T) {
	in := mustTable(t, []string{"0.acc_x"}, []float64{1})
	_, err := DropSensors(in, []int{0})
	assert.True(t, errors.Is(err, ErrMissingColumn))

	merged, err := Merge(nil, []string{"a"})
	require.NoError(t, err)
	_, err = DropSensors(merged, []int{0, 0})
	assert.True(t, errors.Is(err, ErrMissingColumn))
}

func TestSlidingWindows(t *testing.T) {
	in := mustTable(t, []string{"col1", "col2"}, []float64{1, 2, 3}, []float64{4, 5, 6})

	got, err := SlidingWindows(in, 2)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, []float64{1, 4}, got[0].Row(0))
	assert.Equal(t, []float64{2, 5}, got[0].Row(1))
	assert.Equal(t, []int{0, 1}, got[0].Labels())
	assert.Equal(t, []float64{2, 5}, got[1].Row(0))
	assert.Equal(t, []float64{3, 6}, got[1].Row(1))
	assert.Equal(t, []int{1, 2}, got[1].Labels())
}

func TestSlidingWindows_Coverage(t *testing.T) {
	tests := []struct {
		rows, size int
		starts     []int
	}{
		{rows: 10, size: 4, starts: []int{0, 2, 4, 6}},
		{rows: 7, size: 3, starts: []int{0, 1, 3, 4}},
		{rows: 20, size: 10, starts: []int{0, 5, 10}},
		{rows: 1, size: 4, starts: nil},
		{rows: 0, size: 2, starts: nil},
		{rows: 5, size: 1, starts: []int{0, 0, 1, 1, 2, 2, 3, 3, 4, 4}},
	}
	for _, tt := range tests {
		col := make([]float64, tt.rows)
		for i := range col {
			col[i] = float64(i)
		}
		in := mustTable(t, []string{"v"}, col)

		got, err := SlidingWindows(in, tt.size)
		require.NoError(t, err)
		require.Len(t, got, len(tt.starts), "rows=%d size=%d", tt.rows, tt.size)
		for i, w := range got {
			assert.Equal(t, tt.size, w.Len())
			assert.Equal(t, tt.starts[i], w.Label(0))
			vals, _ := w.Column("v")
			assert.Equal(t, col[tt.starts[i]:tt.starts[i]+tt.size], vals)
		}
	}
}

func TestSlidingWindows_InvalidSize(t *testing.T) {
	in := mustTable(t, []string{"v"}, []float64{1, 2})
	_, err := SlidingWindows(in, 0)
	assert.True(t, errors.Is(err, ErrInvalidWindowSize))
}
