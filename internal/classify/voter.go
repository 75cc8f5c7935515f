package classify

import (
	"fmt"

	"github.com/banshee-data/motion.report/internal/features"
)

// WindowVoter classifies a table by cutting it into half-overlapping windows,
// predicting each one, and returning the majority label. Confidence is the
// share of windows that voted for it. Ties go to the label that reached the
// winning count first.
type WindowVoter struct {
	Predictor  Predictor
	WindowSize int
}

// Predict implements Predictor.
func (v WindowVoter) Predict(t *features.Table) (Prediction, error) {
	windows, err := features.SlidingWindows(t, v.WindowSize)
	if err != nil {
		return Prediction{}, err
	}
	if len(windows) == 0 {
		return Prediction{}, fmt.Errorf("%w: %d rows, window size %d", ErrNoWindows, t.Len(), v.WindowSize)
	}

	votes := make(map[string]int)
	var winner string
	for i, w := range windows {
		p, err := v.Predictor.Predict(w)
		if err != nil {
			return Prediction{}, fmt.Errorf("window %d: %w", i, err)
		}
		votes[p.Label]++
		if votes[p.Label] > votes[winner] {
			winner = p.Label
		}
	}
	return Prediction{
		Label:      winner,
		Confidence: float64(votes[winner]) / float64(len(windows)),
	}, nil
}
