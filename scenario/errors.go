package scenario

import "errors"

var (
	// ErrMalformed indicates input that cannot be turned into a grid.
	ErrMalformed = errors.New("scenario: malformed input")
	// ErrUnknownFormat indicates an unsupported file extension.
	ErrUnknownFormat = errors.New("scenario: unknown file format")
	// ErrBadRandom indicates invalid RandomOptions.
	ErrBadRandom = errors.New("scenario: invalid random options")
)
