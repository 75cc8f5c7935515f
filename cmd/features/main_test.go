package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/motion.report/internal/features"
)

func sampleTable(t *testing.T) *features.Table {
	t.Helper()
	var readings []features.Reading
	for k := 0; k < 6; k++ {
		for _, a := range []string{"a", "b"} {
			readings = append(readings, features.Reading{Address: a, UnixTime: int64(k), AccX: float64(k), AccZ: 9.81})
		}
	}
	merged, err := features.Merge(readings, []string{"a", "b"})
	require.NoError(t, err)
	return merged
}

func TestPlotColumns(t *testing.T) {
	merged := sampleTable(t)
	assert.Len(t, plotColumns(merged), 12)

	withMag, err := features.AddAccelerationMagnitude(merged, []int{2, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(t, err)
	assert.Equal(t, []string{"0.acc_magnitude", "1.acc_magnitude"}, plotColumns(withMag))
}

func TestPlotTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "merged.png")
	require.NoError(t, plotTable(sampleTable(t), "merged", path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestReadInputAndWriteOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "readings.json")
	require.NoError(t, os.WriteFile(in, []byte(`[
		{"address":"a","unix_time":2,"acc_x":2},
		{"address":"a","unix_time":1,"acc_x":1}
	]`), 0o644))

	readings, err := readInput(in)
	require.NoError(t, err)
	require.Len(t, readings, 2)

	table, err := features.Merge(readings, []string{"a"})
	require.NoError(t, err)
	out := filepath.Join(dir, "out.csv")
	require.NoError(t, writeOutput(out, table))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1,"), "first row %q should be the earliest reading", lines[1])
}
