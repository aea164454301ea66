package query

import "errors"

var (
	// ErrInvalidArgument is returned for a non-positive page or chunk size,
	// an invalid Config, or a nil map passed to NormalizeTimestamps.
	ErrInvalidArgument = errors.New("lattice: invalid argument")

	// ErrQueryExecution wraps any failure reported by Source.Execute.
	ErrQueryExecution = errors.New("lattice: query execution failed")
)
