package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/pipeline"
)

func TestLoadConfig_MissingDefaultFallsBack(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "motion.json"), false)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}

func TestLoadConfig_MissingExplicitFails(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "motion.json"), true)
	assert.Error(t, err)
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motion.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"sensor_addresses":["a","b"],"rolling_size":4}`), 0o644))

	cfg, err := loadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cfg.SensorAddresses)
	assert.Equal(t, 4, cfg.GetRollingSize())
}

func TestApplyFlags(t *testing.T) {
	origListen, origPort, origDB := *listen, *port, *dbPath
	defer func() { *listen, *port, *dbPath = origListen, origPort, origDB }()

	cfg := config.DefaultConfig()
	*listen, *port, *dbPath = ":9090", "/dev/ttyACM0", ""
	applyFlags(cfg)

	assert.Equal(t, ":9090", cfg.GetListen())
	assert.Equal(t, "/dev/ttyACM0", cfg.GetSerialPort())
	assert.Equal(t, "motion.db", cfg.GetDBPath())
}

func TestBuildPipeline_FallbackConfig(t *testing.T) {
	origAddresses := *addresses
	defer func() { *addresses = origAddresses }()

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "motion.json"), false)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	*addresses = ""
	applyFlags(cfg)
	_, err = buildPipeline(cfg)
	require.ErrorIs(t, err, pipeline.ErrNoAddresses)
	assert.Contains(t, err.Error(), "-addresses")

	*addresses = " left, right ,"
	applyFlags(cfg)
	assert.Equal(t, []string{"left", "right"}, cfg.SensorAddresses)
	require.NoError(t, cfg.Validate())
	p, err := buildPipeline(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"left", "right"}, p.Options().Addresses)
}

func TestReadFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("{\"status\":\"ok\"}\n\n  {\"address\":\"a\",\"unix_time\":1}  \n"), 0o644))

	lines, err := readFixtures(path)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, `{"address":"a","unix_time":1}`, string(lines[1]))

	_, err = readFixtures(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}
