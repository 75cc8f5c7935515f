package features

import "fmt"

// DropSensors removes the six axis columns of each listed sensor position,
// plus its magnitude column when present. Every axis column must exist;
// listing a sensor twice fails the second time round.
func DropSensors(t *Table, sensors []int) (*Table, error) {
	drop := make(map[string]bool)
	for _, s := range sensors {
		for _, f := range AxisFields {
			name := ColumnName(s, f)
			if !t.HasColumn(name) || drop[name] {
				return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
			}
			drop[name] = true
		}
		if mag := ColumnName(s, AccMagnitude); t.HasColumn(mag) {
			drop[mag] = true
		}
	}
	return t.project(func(name string) bool { return !drop[name] }), nil
}
