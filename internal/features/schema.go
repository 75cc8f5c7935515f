package features

import "strconv"

// MaxSensors is the number of sensor positions a table can carry. Sensor
// columns are addressed by position 0..MaxSensors-1 in the order the
// addresses were supplied to Merge.
const MaxSensors = 10

// Field identifies one per-sensor column.
type Field int

const (
	AccX Field = iota
	AccY
	AccZ
	GyroX
	GyroY
	GyroZ
	AccMagnitude
)

var fieldNames = [...]string{
	AccX:         "acc_x",
	AccY:         "acc_y",
	AccZ:         "acc_z",
	GyroX:        "gyro_x",
	GyroY:        "gyro_y",
	GyroZ:        "gyro_z",
	AccMagnitude: "acc_magnitude",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "field(" + strconv.Itoa(int(f)) + ")"
	}
	return fieldNames[f]
}

// AxisFields are the six raw fields every merged sensor contributes, in
// column order.
var AxisFields = [...]Field{AccX, AccY, AccZ, GyroX, GyroY, GyroZ}

// ColumnName renders the column name for a sensor position and field, e.g.
// ColumnName(1, GyroZ) == "1.gyro_z".
func ColumnName(sensor int, f Field) string {
	return strconv.Itoa(sensor) + "." + f.String()
}

// SensorColumns returns the 6*n merged column names for n sensors.
func SensorColumns(n int) []string {
	cols := make([]string, 0, n*len(AxisFields))
	for i := 0; i < n; i++ {
		for _, f := range AxisFields {
			cols = append(cols, ColumnName(i, f))
		}
	}
	return cols
}
