// Package classify holds the predictor boundary: anything that maps a feature
// table (or a window of one) to a label with a confidence.
package classify

import (
	"errors"

	"github.com/google/uuid"

	"github.com/banshee-data/motion.report/internal/features"
)

// UnknownLabel is reported when no class clears the confidence threshold.
const UnknownLabel = "Unknown"

// IdleExercise is the exercise label for "no exercise being performed".
var IdleExercise = uuid.Nil

// Confidence levels used by the rule-based predictors.
const (
	HighConfidence   = 0.85
	MediumConfidence = 0.70
	LowConfidence    = 0.50
)

var (
	// ErrNoRows is returned when a predictor is handed an empty table.
	ErrNoRows = errors.New("no rows to classify")
	// ErrNoWindows is returned when a table is too short to cut a window.
	ErrNoWindows = errors.New("no complete windows to classify")
)

// Prediction is a predictor's answer.
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Predictor maps a feature table to a label.
type Predictor interface {
	Predict(t *features.Table) (Prediction, error)
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(t *features.Table) (Prediction, error)

// Predict calls f(t).
func (f PredictorFunc) Predict(t *features.Table) (Prediction, error) { return f(t) }

func clampConfidence(value, lo, hi float64) float64 {
	if value > hi {
		return hi
	}
	if value < lo {
		return lo
	}
	return value
}
