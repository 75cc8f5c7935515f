package classify

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/motion.report/internal/features"
)

// Class is one labelled centroid in feature space.
type Class struct {
	Label    string    `json:"label"`
	Centroid []float64 `json:"centroid"`
}

// CentroidModel is a nearest-centroid classifier over the column means of a
// table. Columns fixes which table columns feed the model and in what order.
type CentroidModel struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Classes []Class  `json:"classes"`
}

// LoadCentroidModel reads and validates a model file.
func LoadCentroidModel(path string) (*CentroidModel, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("model file must have .json extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}
	var m CentroidModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", cleanPath, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model %s: %w", cleanPath, err)
	}
	return &m, nil
}

// Validate checks the model is usable.
func (m *CentroidModel) Validate() error {
	if len(m.Columns) == 0 {
		return fmt.Errorf("model has no columns")
	}
	columns := make(map[string]bool, len(m.Columns))
	for _, c := range m.Columns {
		if columns[c] {
			return fmt.Errorf("%w: %s listed twice", features.ErrColumnExists, c)
		}
		columns[c] = true
	}
	if len(m.Classes) == 0 {
		return fmt.Errorf("model has no classes")
	}
	seen := make(map[string]bool, len(m.Classes))
	for _, c := range m.Classes {
		if c.Label == "" {
			return fmt.Errorf("class with empty label")
		}
		if seen[c.Label] {
			return fmt.Errorf("duplicate class %q", c.Label)
		}
		seen[c.Label] = true
		if len(c.Centroid) != len(m.Columns) {
			return fmt.Errorf("class %q has %d centroid values for %d columns", c.Label, len(c.Centroid), len(m.Columns))
		}
	}
	return nil
}

// Predict picks the class whose centroid is closest (Euclidean) to the
// column means of t. Confidence is the winner's share of inverse distances.
func (m *CentroidModel) Predict(t *features.Table) (Prediction, error) {
	if t.Len() == 0 {
		return Prediction{}, ErrNoRows
	}
	sel, err := t.Select(m.Columns)
	if err != nil {
		return Prediction{}, err
	}
	x := columnMeans(sel.Dense())

	best, bestDist := -1, math.Inf(1)
	dists := make([]float64, len(m.Classes))
	for i, c := range m.Classes {
		dists[i] = floats.Distance(x, c.Centroid, 2)
		if dists[i] < bestDist {
			best, bestDist = i, dists[i]
		}
	}
	if bestDist == 0 {
		return Prediction{Label: m.Classes[best].Label, Confidence: 1}, nil
	}

	var total float64
	for _, d := range dists {
		total += 1 / d
	}
	return Prediction{
		Label:      m.Classes[best].Label,
		Confidence: clampConfidence((1/bestDist)/total, 0, 1),
	}, nil
}

func columnMeans(d *mat.Dense) []float64 {
	_, cols := d.Dims()
	means := make([]float64, cols)
	for j := range means {
		means[j] = stat.Mean(mat.Col(nil, j, d), nil)
	}
	return means
}
