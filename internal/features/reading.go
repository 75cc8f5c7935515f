package features

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Reading is one raw observation from one sensor: three accelerometer and
// three gyroscope axes stamped with the collector's clock. The JSON shape is
// the one emitted by the sensor hub.
type Reading struct {
	Address  string  `json:"address"`
	UnixTime int64   `json:"unix_time"`
	AccX     float64 `json:"acc_x"`
	AccY     float64 `json:"acc_y"`
	AccZ     float64 `json:"acc_z"`
	GyroX    float64 `json:"gyro_x"`
	GyroY    float64 `json:"gyro_y"`
	GyroZ    float64 `json:"gyro_z"`
}

// Axes returns the six axis values in AxisFields order.
func (r Reading) Axes() [6]float64 {
	return [6]float64{r.AccX, r.AccY, r.AccZ, r.GyroX, r.GyroY, r.GyroZ}
}

// ErrNotList is returned by ReadReadingsJSON when the payload is not a JSON
// array.
var ErrNotList = errors.New("input must be of type list")

// ReadReadingsJSON decodes a JSON array of readings.
func ReadReadingsJSON(r io.Reader) ([]Reading, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read readings: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return nil, ErrNotList
	}
	var readings []Reading
	if err := json.Unmarshal(data, &readings); err != nil {
		return nil, fmt.Errorf("failed to parse readings: %w", err)
	}
	return readings, nil
}
