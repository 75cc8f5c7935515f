// Package pipeline runs the recognition flow over one batch of readings:
// merge the sensor streams, recognise the exercise from smoothed features, then
// look for mistakes with that exercise's model over normalised windows.
package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/banshee-data/motion.report/internal/classify"
	"github.com/banshee-data/motion.report/internal/features"
)

const (
	StatusOK     = "OK"
	StatusFailed = "FAILED"
)

// IdleMistakes is reported as the mistake label when the user is idle.
const IdleMistakes = "0"

// Result is the outcome of one recognition run.
type Result struct {
	Status        string
	Exercise      string
	ExerciseScore float64
	Mistakes      string
	MistakesScore float64
	Message       string
}

// Failed returns a FAILED result carrying msg.
func Failed(msg string) Result {
	return Result{Status: StatusFailed, Message: msg}
}

// MarshalJSON renders failed results as {status, message} and successful
// ones with every score field.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Status != StatusOK {
		return json.Marshal(struct {
			Status  string `json:"status"`
			Message string `json:"message"`
		}{r.Status, r.Message})
	}
	return json.Marshal(struct {
		Status        string  `json:"status"`
		Exercise      string  `json:"exercise"`
		ExerciseScore float64 `json:"exercise_score"`
		Mistakes      string  `json:"mistakes"`
		MistakesScore float64 `json:"mistakes_score"`
	}{r.Status, r.Exercise, r.ExerciseScore, r.Mistakes, r.MistakesScore})
}

// Options configures a Pipeline.
type Options struct {
	// Addresses lists the sensor addresses; position i owns the "{i}.*"
	// columns.
	Addresses []string
	// Skip lists sensor positions excluded from exercise recognition.
	Skip          []int
	RollingSize   int
	WindowSize    int
	MinConfidence float64
}

// ErrNoAddresses is returned by New when no sensor addresses are configured.
var ErrNoAddresses = errors.New("no sensor addresses configured")

// Pipeline holds the configuration and models for recognition. It keeps no
// per-call state, so one Pipeline may serve concurrent requests.
type Pipeline struct {
	opts     Options
	drop     []int
	noMag    []int
	exercise classify.Predictor
	mistakes map[uuid.UUID]classify.Predictor
}

// New validates opts and returns a Pipeline that recognises exercises with
// exercise and mistakes with the per-exercise predictors in mistakes.
func New(opts Options, exercise classify.Predictor, mistakes map[uuid.UUID]classify.Predictor) (*Pipeline, error) {
	if len(opts.Addresses) == 0 {
		return nil, ErrNoAddresses
	}
	if len(opts.Addresses) > features.MaxSensors {
		return nil, fmt.Errorf("%d sensor addresses configured, at most %d supported", len(opts.Addresses), features.MaxSensors)
	}
	if opts.RollingSize < 1 || opts.WindowSize < 1 {
		return nil, fmt.Errorf("%w: rolling %d, window %d", features.ErrInvalidWindowSize, opts.RollingSize, opts.WindowSize)
	}
	if opts.MinConfidence < 0 || opts.MinConfidence > 1 {
		return nil, fmt.Errorf("min confidence %v outside [0, 1]", opts.MinConfidence)
	}
	if exercise == nil {
		return nil, errors.New("no exercise predictor")
	}

	p := &Pipeline{opts: opts, exercise: exercise, mistakes: mistakes}

	// Skipped positions that exist in the merged table are dropped; positions
	// beyond the configured sensors never get a magnitude column.
	n := len(opts.Addresses)
	for _, s := range opts.Skip {
		if s < 0 || s >= features.MaxSensors {
			return nil, fmt.Errorf("skip sensor index %d out of range", s)
		}
		if s < n && !slices.Contains(p.drop, s) {
			p.drop = append(p.drop, s)
		}
	}
	slices.Sort(p.drop)
	p.noMag = slices.Clone(p.drop)
	for i := n; i < features.MaxSensors; i++ {
		p.noMag = append(p.noMag, i)
	}
	return p, nil
}

// Options returns the pipeline configuration.
func (p *Pipeline) Options() Options { return p.opts }

// Run recognises the exercise and mistakes in one batch. Invalid input and
// unconfident predictions produce a FAILED result; the error return is
// reserved for predictor failures.
func (p *Pipeline) Run(readings []features.Reading) (Result, error) {
	merged, err := features.Merge(readings, p.opts.Addresses)
	if err != nil {
		return Failed(err.Error()), nil
	}

	rolled, err := p.exerciseFeatures(merged)
	if err != nil {
		return Failed(err.Error()), nil
	}
	if rolled.Len() == 0 {
		return Failed(fmt.Sprintf("not enough readings: %d merged rows, rolling size %d", merged.Len(), p.opts.RollingSize)), nil
	}

	exercise, err := p.exercise.Predict(rolled)
	if err != nil {
		return Result{}, fmt.Errorf("exercise prediction: %w", err)
	}
	if exercise.Label == classify.UnknownLabel || exercise.Confidence < p.opts.MinConfidence {
		return Failed(fmt.Sprintf("could not recognise exercise (confidence %.2f, need %.2f)",
			exercise.Confidence, p.opts.MinConfidence)), nil
	}

	exerciseID, err := uuid.Parse(exercise.Label)
	if err != nil {
		return Failed(fmt.Sprintf("exercise label %q is not an exercise id", exercise.Label)), nil
	}
	if exerciseID == classify.IdleExercise {
		return Result{
			Status:        StatusOK,
			Exercise:      exerciseID.String(),
			ExerciseScore: exercise.Confidence,
			Mistakes:      IdleMistakes,
		}, nil
	}

	model, ok := p.mistakes[exerciseID]
	if !ok {
		return Failed(fmt.Sprintf("no mistake model for exercise %s", exerciseID)), nil
	}

	normalized, err := p.mistakeFeatures(merged)
	if err != nil {
		return Failed(err.Error()), nil
	}
	voter := classify.WindowVoter{Predictor: model, WindowSize: p.opts.WindowSize}
	mistakes, err := voter.Predict(normalized)
	if errors.Is(err, classify.ErrNoWindows) {
		return Failed(err.Error()), nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("mistake prediction: %w", err)
	}
	if mistakes.Label == classify.UnknownLabel || mistakes.Confidence < p.opts.MinConfidence {
		return Failed(fmt.Sprintf("could not recognise mistakes (confidence %.2f, need %.2f)",
			mistakes.Confidence, p.opts.MinConfidence)), nil
	}

	return Result{
		Status:        StatusOK,
		Exercise:      exerciseID.String(),
		ExerciseScore: exercise.Confidence,
		Mistakes:      mistakes.Label,
		MistakesScore: mistakes.Confidence,
	}, nil
}

// exerciseFeatures drops skipped sensors, adds magnitudes and smooths.
func (p *Pipeline) exerciseFeatures(merged *features.Table) (*features.Table, error) {
	mag, err := p.magnitudes(merged)
	if err != nil {
		return nil, err
	}
	return features.RollingAverage(mag, p.opts.RollingSize)
}

func (p *Pipeline) magnitudes(merged *features.Table) (*features.Table, error) {
	kept, err := features.DropSensors(merged, p.drop)
	if err != nil {
		return nil, err
	}
	return features.AddAccelerationMagnitude(kept, p.noMag)
}

func (p *Pipeline) mistakeFeatures(merged *features.Table) (*features.Table, error) {
	kept, err := features.DropSensors(merged, p.drop)
	if err != nil {
		return nil, err
	}
	return features.Normalize(kept), nil
}
