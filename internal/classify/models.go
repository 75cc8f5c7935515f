package classify

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/security"
)

var logf = monitoring.Component("classify")

// LoadModelDir loads one CentroidModel per "<exercise-uuid>.json" file in
// dir, keyed by exercise. Files whose name is not a UUID, and symlinks that
// resolve outside dir, are skipped.
func LoadModelDir(dir string) (map[uuid.UUID]*CentroidModel, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read model directory: %w", err)
	}
	models := make(map[uuid.UUID]*CentroidModel)
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			logf("skipping %s: name is not an exercise id", e.Name())
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := security.ValidatePathWithinDirectory(path, dir); err != nil {
			logf("skipping %s: %v", e.Name(), err)
			continue
		}
		m, err := LoadCentroidModel(path)
		if err != nil {
			return nil, err
		}
		models[id] = m
	}
	logf("loaded %d mistake models from %s", len(models), dir)
	return models, nil
}
