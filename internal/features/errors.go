package features

import "errors"

var (
	// ErrInvalidSensorAddress is returned by Merge when a reading names a
	// sensor that is not in the declared address list, or when the list
	// itself repeats an address.
	ErrInvalidSensorAddress = errors.New("invalid sensor address")

	// ErrMissingColumn is returned when a stage needs a column the table does
	// not have.
	ErrMissingColumn = errors.New("missing column")

	// ErrColumnExists is returned when a stage would add a column that is
	// already present.
	ErrColumnExists = errors.New("column already exists")

	// ErrInvalidWindowSize is returned for window sizes below one.
	ErrInvalidWindowSize = errors.New("window size must be positive")

	// ErrRowLength is returned when a row does not match the table width.
	ErrRowLength = errors.New("row length does not match column count")
)
