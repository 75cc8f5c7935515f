// Package features turns raw, independently timestamped IMU readings from a
// set of body-worn sensors into aligned feature tables for classification.
//
// Stages: Merge aligns per-sensor streams into one row per time step,
// Normalize rescales columns, RollingAverage smooths, AddAccelerationMagnitude
// derives per-sensor magnitudes, DropSensors prunes a sensor's columns and
// SlidingWindows cuts half-overlapping windows for sequence models.
//
// Every stage is a pure function: it never mutates its input table and keeps
// no state between calls, so callers may run pipelines concurrently as long as
// each owns its tables. No logging or I/O happens in this package apart from
// the explicit codec helpers in csv.go and reading.go.
package features
