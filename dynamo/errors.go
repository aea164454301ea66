package dynamo

import "errors"

var (
	// ErrTooManyValues is returned by Execute when a WhereIn filter has more
	// than MaxInValues values.
	ErrTooManyValues = errors.New("lattice: too many values for IN filter")

	// ErrMissingID is returned when a returned item has no usable ID attribute.
	ErrMissingID = errors.New("lattice: item has no id attribute")

	// ErrInvalidCursor is returned when StartAfter is given a document whose
	// key cannot be determined.
	ErrInvalidCursor = errors.New("lattice: cursor has no primary key")
)
