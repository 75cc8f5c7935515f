package features

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_DuplicateColumn(t *testing.T) {
	_, err := NewTable([]string{"a", "b", "a"})
	assert.True(t, errors.Is(err, ErrColumnExists))
}

func TestAppendRow_Length(t *testing.T) {
	tbl, err := NewTable([]string{"a", "b"})
	require.NoError(t, err)
	assert.True(t, errors.Is(tbl.AppendRow([]float64{1}), ErrRowLength))
	require.NoError(t, tbl.AppendRow([]float64{1, 2}))
	assert.Equal(t, 1, tbl.Len())
}

func TestFromColumns_Ragged(t *testing.T) {
	_, err := FromColumns([]string{"a", "b"}, [][]float64{{1, 2}, {1}})
	assert.Error(t, err)
	_, err = FromColumns([]string{"a"}, nil)
	assert.Error(t, err)
}

func TestDense(t *testing.T) {
	tbl := mustTable(t, []string{"a", "b"}, []float64{1, 2, 3}, []float64{4, 5, 6})
	m := tbl.Dense()
	require.NotNil(t, m)
	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, 5.0, m.At(1, 1))

	empty := mustTable(t, []string{"a"}, []float64{})
	assert.Nil(t, empty.Dense())
}

func TestSummary(t *testing.T) {
	tbl := mustTable(t, []string{"a", "one"}, []float64{2, 4, 4, 4, 5, 5, 7, 9}, []float64{3, 3, 3, 3, 3, 3, 3, 3})
	s := tbl.Summary()
	require.Len(t, s, 2)
	assert.Equal(t, "a", s[0].Column)
	assert.InDelta(t, 5.0, s[0].Mean, 1e-12)
	assert.Equal(t, 2.0, s[0].Min)
	assert.Equal(t, 9.0, s[0].Max)
	assert.InDelta(t, 0.0, s[1].StdDev, 1e-12)
}

func TestWriteCSV(t *testing.T) {
	tbl := mustTable(t, []string{"0.acc_x", "0.acc_magnitude"}, []float64{1.5, -2}, []float64{3, 0.25})
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.Equal(t, "0.acc_x,0.acc_magnitude\n1.5,3\n-2,0.25\n", buf.String())
}

func TestMarshalJSON(t *testing.T) {
	tbl := mustTable(t, []string{"col1", "col2"}, []float64{1, 2, 3}, []float64{4, 5, 6})
	windows, err := SlidingWindows(tbl, 2)
	require.NoError(t, err)

	data, err := json.Marshal(windows[1])
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["col1","col2"],"labels":[1,2],"rows":[[2,5],[3,6]]}`, string(data))
}

func TestReadReadingsJSON(t *testing.T) {
	body := `[{"acc_x": 1.2, "acc_y": 3.4, "acc_z": 5.6, "gyro_x": 1.2, "gyro_y": 3.4, "gyro_z": 5.6, "address": "123", "unix_time": 456}]`
	got, err := ReadReadingsJSON(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, Reading{Address: "123", UnixTime: 456, AccX: 1.2, AccY: 3.4, AccZ: 5.6, GyroX: 1.2, GyroY: 3.4, GyroZ: 5.6}, got[0])

	_, err = ReadReadingsJSON(strings.NewReader(`{"address": "123"}`))
	assert.True(t, errors.Is(err, ErrNotList))

	_, err = ReadReadingsJSON(strings.NewReader(`[{"unix_time": "soon"}]`))
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotList))
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "1.gyro_z", ColumnName(1, GyroZ))
	assert.Equal(t, "9.acc_magnitude", ColumnName(9, AccMagnitude))
	assert.Equal(t, "field(42)", Field(42).String())
}

func TestSelect(t *testing.T) {
	tbl := mustTable(t, []string{"a", "b", "c"}, []float64{1}, []float64{2}, []float64{3})

	got, err := tbl.Select([]string{"c", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, got.Columns())
	assert.Equal(t, []float64{3, 1}, got.Row(0))

	_, err = tbl.Select([]string{"a", "nope"})
	assert.True(t, errors.Is(err, ErrMissingColumn))
}
