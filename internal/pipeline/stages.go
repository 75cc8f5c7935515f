package pipeline

import (
	"errors"
	"fmt"

	"github.com/banshee-data/motion.report/internal/features"
)

// Stage names an intermediate table of the exercise flow.
type Stage string

const (
	StageMerged     Stage = "merged"
	StageNormalized Stage = "normalized"
	StageMagnitude  Stage = "magnitude"
	StageRolled     Stage = "rolled"
)

// Stages lists every stage in flow order.
var Stages = []Stage{StageMerged, StageNormalized, StageMagnitude, StageRolled}

// ErrUnknownStage is returned by Features for an unrecognised stage name.
var ErrUnknownStage = errors.New("unknown stage")

// ParseStage converts a stage name, defaulting to StageMerged when empty.
func ParseStage(name string) (Stage, error) {
	if name == "" {
		return StageMerged, nil
	}
	for _, s := range Stages {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStage, name)
}

// Features returns the table a batch produces at the given stage. Normalized
// is the mistake-detection input; magnitude and rolled are the exercise
// recognition inputs.
func (p *Pipeline) Features(readings []features.Reading, stage Stage) (*features.Table, error) {
	merged, err := features.Merge(readings, p.opts.Addresses)
	if err != nil {
		return nil, err
	}
	switch stage {
	case StageMerged:
		return merged, nil
	case StageNormalized:
		return p.mistakeFeatures(merged)
	case StageMagnitude:
		return p.magnitudes(merged)
	case StageRolled:
		return p.exerciseFeatures(merged)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}
}
