package classify

import (
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/motion.report/internal/features"
)

// IdleMagnitudeStdMax is the acceleration magnitude spread below which every
// sensor is considered at rest.
const IdleMagnitudeStdMax = 0.05

// IdleDetector is a rule-based exercise predictor used when no trained
// exercise model is configured. It only recognises rest: if every
// acceleration magnitude column is nearly flat it predicts IdleExercise,
// otherwise UnknownLabel.
type IdleDetector struct {
	StdMax float64
}

// NewIdleDetector returns an IdleDetector with the default threshold.
func NewIdleDetector() *IdleDetector {
	return &IdleDetector{StdMax: IdleMagnitudeStdMax}
}

// Predict implements Predictor.
func (d *IdleDetector) Predict(t *features.Table) (Prediction, error) {
	if t.Len() == 0 {
		return Prediction{}, ErrNoRows
	}
	var spreads []float64
	for _, name := range t.Columns() {
		if !strings.HasSuffix(name, "."+features.AccMagnitude.String()) {
			continue
		}
		col, _ := t.Column(name)
		spreads = append(spreads, stat.PopStdDev(col, nil))
	}
	if len(spreads) == 0 {
		return Prediction{Label: UnknownLabel, Confidence: 0}, nil
	}

	worst := spreads[0]
	for _, s := range spreads[1:] {
		worst = max(worst, s)
	}
	if worst >= d.StdMax {
		return Prediction{Label: UnknownLabel, Confidence: LowConfidence}, nil
	}

	confidence := MediumConfidence
	// Flatter signals are more clearly at rest.
	if worst < d.StdMax/2 {
		confidence = HighConfidence
	}
	return Prediction{Label: IdleExercise.String(), Confidence: clampConfidence(confidence, 0, 1)}, nil
}
