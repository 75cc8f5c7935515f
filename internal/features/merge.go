package features

import (
	"cmp"
	"fmt"
	"slices"
)

// Merge aligns readings from several sensors into one table with a row per
// time step, oldest first. Sensor i in addresses owns the columns
// "{i}.acc_x" .. "{i}.gyro_z".
//
// Each sensor's readings are ordered by UnixTime (ties keep input order) and
// row k takes the k-th reading of every sensor, so the table has as many rows
// as the sensor with the fewest readings. Surplus readings are dropped; a row
// is never partially filled. The column set is always 6*len(addresses), even
// when no row can be built.
func Merge(readings []Reading, addresses []string) (*Table, error) {
	slots := make(map[string]int, len(addresses))
	for i, a := range addresses {
		if _, dup := slots[a]; dup {
			return nil, fmt.Errorf("%w: %q listed twice", ErrInvalidSensorAddress, a)
		}
		slots[a] = i
	}

	queues := make([][]Reading, len(addresses))
	for _, r := range readings {
		i, ok := slots[r.Address]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidSensorAddress, r.Address)
		}
		queues[i] = append(queues[i], r)
	}

	t, err := NewTable(SensorColumns(len(addresses)))
	if err != nil {
		return nil, err
	}
	if len(queues) == 0 {
		return t, nil
	}

	rows := len(queues[0])
	for _, q := range queues {
		slices.SortStableFunc(q, func(a, b Reading) int {
			return cmp.Compare(a.UnixTime, b.UnixTime)
		})
		rows = min(rows, len(q))
	}

	// Every queue shares the row cursor; rows stops at the shortest queue.
	row := make([]float64, 0, t.NumColumns())
	for k := 0; k < rows; k++ {
		row = row[:0]
		for _, q := range queues {
			axes := q[k].Axes()
			row = append(row, axes[:]...)
		}
		if err := t.AppendRow(row); err != nil {
			return nil, err
		}
	}
	return t, nil
}
