package schedule

import "errors"

var (
	// ErrInvalidWindow reports a malformed working window. It is a
	// configuration error and must stop startup.
	ErrInvalidWindow = errors.New("invalid working window")

	// ErrInvalidDuration reports a non-positive slot duration.
	ErrInvalidDuration = errors.New("invalid slot duration")

	// ErrMalformedLabel reports a time value that cannot be normalized
	// to "HH:MM".
	ErrMalformedLabel = errors.New("malformed slot label")

	ErrMalformedDate = errors.New("malformed date")
)
