package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/motion.report/internal/features"
	"github.com/banshee-data/motion.report/internal/serialmux"
)

// DefaultConfigPath is where the service looks for its configuration when no
// -config flag is given.
const DefaultConfigPath = "config/motion.json"

// Config is the service configuration. Every field is optional; the Get*
// accessors supply defaults for fields the file leaves out.
type Config struct {
	// Sensor layout. Position i in SensorAddresses owns the "{i}.*" columns.
	SensorAddresses   []string `json:"sensor_addresses,omitempty"`
	SkipSensorIndexes []int    `json:"skip_sensor_indexes,omitempty"`

	// Feature pipeline
	RollingSize   *int     `json:"rolling_size,omitempty"`
	WindowSize    *int     `json:"window_size,omitempty"`
	MinConfidence *float64 `json:"min_confidence,omitempty"`

	// Models
	ExerciseModelPath *string `json:"exercise_model_path,omitempty"`
	MistakeModelDir   *string `json:"mistake_model_dir,omitempty"`

	// Service
	Listen     *string `json:"listen,omitempty"`
	GRPCListen *string `json:"grpc_listen,omitempty"`
	DBPath     *string `json:"db_path,omitempty"`

	// Serial collector
	SerialPort   *string                `json:"serial_port,omitempty"`
	Serial       *serialmux.PortOptions `json:"serial,omitempty"`
	BatchSize    *int                   `json:"batch_size,omitempty"`
	BatchTimeout *string                `json:"batch_timeout,omitempty"` // duration string like "2s"
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// DefaultConfig returns a Config with every default filled in explicitly.
func DefaultConfig() *Config {
	return &Config{
		RollingSize:   ptrInt(10),
		WindowSize:    ptrInt(10),
		MinConfidence: ptrFloat64(0.5),
		Listen:        ptrString(":8080"),
		DBPath:        ptrString("motion.db"),
		BatchSize:     ptrInt(500),
		BatchTimeout:  ptrString("2s"),
	}
}

// LoadConfig loads a Config from a JSON file. The file must have a .json
// extension and be under 1MB. Fields omitted from the file keep their
// defaults through the Get* accessors.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if len(c.SensorAddresses) > features.MaxSensors {
		return fmt.Errorf("at most %d sensor_addresses supported, got %d", features.MaxSensors, len(c.SensorAddresses))
	}
	seen := make(map[string]bool, len(c.SensorAddresses))
	for _, a := range c.SensorAddresses {
		if a == "" {
			return fmt.Errorf("sensor_addresses must not contain empty addresses")
		}
		if seen[a] {
			return fmt.Errorf("sensor address %q listed twice", a)
		}
		seen[a] = true
	}
	for _, i := range c.SkipSensorIndexes {
		if i < 0 || i >= features.MaxSensors {
			return fmt.Errorf("skip_sensor_indexes entry %d out of range 0..%d", i, features.MaxSensors-1)
		}
	}
	if c.RollingSize != nil && *c.RollingSize < 1 {
		return fmt.Errorf("rolling_size must be positive, got %d", *c.RollingSize)
	}
	if c.WindowSize != nil && *c.WindowSize < 1 {
		return fmt.Errorf("window_size must be positive, got %d", *c.WindowSize)
	}
	if c.MinConfidence != nil && (*c.MinConfidence < 0 || *c.MinConfidence > 1) {
		return fmt.Errorf("min_confidence must be between 0 and 1, got %f", *c.MinConfidence)
	}
	if c.BatchSize != nil && *c.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive, got %d", *c.BatchSize)
	}
	if c.BatchTimeout != nil && *c.BatchTimeout != "" {
		if _, err := time.ParseDuration(*c.BatchTimeout); err != nil {
			return fmt.Errorf("invalid batch_timeout '%s': %w", *c.BatchTimeout, err)
		}
	}
	if c.Serial != nil {
		if _, err := c.Serial.Normalize(); err != nil {
			return fmt.Errorf("invalid serial options: %w", err)
		}
	}
	return nil
}

// GetRollingSize returns the rolling_size value or the default.
func (c *Config) GetRollingSize() int {
	if c.RollingSize == nil {
		return 10
	}
	return *c.RollingSize
}

// GetWindowSize returns the window_size value or the default.
func (c *Config) GetWindowSize() int {
	if c.WindowSize == nil {
		return 10
	}
	return *c.WindowSize
}

// GetMinConfidence returns the min_confidence value or the default.
func (c *Config) GetMinConfidence() float64 {
	if c.MinConfidence == nil {
		return 0.5
	}
	return *c.MinConfidence
}

// GetExerciseModelPath returns the exercise model path, empty when unset.
func (c *Config) GetExerciseModelPath() string {
	if c.ExerciseModelPath == nil {
		return ""
	}
	return *c.ExerciseModelPath
}

// GetMistakeModelDir returns the mistake model directory, empty when unset.
func (c *Config) GetMistakeModelDir() string {
	if c.MistakeModelDir == nil {
		return ""
	}
	return *c.MistakeModelDir
}

// GetListen returns the HTTP listen address or the default.
func (c *Config) GetListen() string {
	if c.Listen == nil || *c.Listen == "" {
		return ":8080"
	}
	return *c.Listen
}

// GetGRPCListen returns the gRPC health listen address; empty disables it.
func (c *Config) GetGRPCListen() string {
	if c.GRPCListen == nil {
		return ""
	}
	return *c.GRPCListen
}

// GetDBPath returns the SQLite path or the default.
func (c *Config) GetDBPath() string {
	if c.DBPath == nil || *c.DBPath == "" {
		return "motion.db"
	}
	return *c.DBPath
}

// GetSerialPort returns the sensor hub serial port; empty disables the
// collector.
func (c *Config) GetSerialPort() string {
	if c.SerialPort == nil {
		return ""
	}
	return *c.SerialPort
}

// GetSerialOptions returns the serial options, zero values meaning defaults.
func (c *Config) GetSerialOptions() serialmux.PortOptions {
	if c.Serial == nil {
		return serialmux.PortOptions{}
	}
	return *c.Serial
}

// GetBatchSize returns the batch_size value or the default.
func (c *Config) GetBatchSize() int {
	if c.BatchSize == nil {
		return 500
	}
	return *c.BatchSize
}

// GetBatchTimeout parses and returns the BatchTimeout as a time.Duration.
func (c *Config) GetBatchTimeout() time.Duration {
	if c.BatchTimeout == nil || *c.BatchTimeout == "" {
		return 2 * time.Second // default
	}
	d, err := time.ParseDuration(*c.BatchTimeout)
	if err != nil {
		return 2 * time.Second // default on parse error
	}
	return d
}
