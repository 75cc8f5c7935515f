package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/motion.report/internal/classify"
	"github.com/banshee-data/motion.report/internal/config"
)

// FromConfig builds a Pipeline from the service configuration, loading the
// exercise model and the per-exercise mistake models from disk. Without an
// exercise model the pipeline only recognises rest.
func FromConfig(cfg *config.Config) (*Pipeline, error) {
	var exercise classify.Predictor = classify.NewIdleDetector()
	if path := cfg.GetExerciseModelPath(); path != "" {
		m, err := classify.LoadCentroidModel(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load exercise model: %w", err)
		}
		exercise = m
	}

	mistakes := make(map[uuid.UUID]classify.Predictor)
	if dir := cfg.GetMistakeModelDir(); dir != "" {
		models, err := classify.LoadModelDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load mistake models: %w", err)
		}
		for id, m := range models {
			mistakes[id] = m
		}
	}

	return New(Options{
		Addresses:     cfg.SensorAddresses,
		Skip:          cfg.SkipSensorIndexes,
		RollingSize:   cfg.GetRollingSize(),
		WindowSize:    cfg.GetWindowSize(),
		MinConfidence: cfg.GetMinConfidence(),
	}, exercise, mistakes)
}
