package features

import "encoding/json"

type tableJSON struct {
	Columns []string    `json:"columns"`
	Labels  []int       `json:"labels"`
	Rows    [][]float64 `json:"rows"`
}

// MarshalJSON encodes the table row-major with its labels.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{
		Columns: t.Columns(),
		Labels:  t.Labels(),
		Rows:    make([][]float64, t.Len()),
	}
	if out.Labels == nil {
		out.Labels = []int{}
	}
	for r := range out.Rows {
		out.Rows[r] = t.Row(r)
	}
	return json.Marshal(out)
}
