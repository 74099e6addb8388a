package calibration

import "errors"

var (
	// ErrUnreadable reports a configuration file that could not be
	// read from disk.
	ErrUnreadable = errors.New("calibration: unreadable config file")

	// ErrMalformed reports a document that is not valid YAML or
	// carries fields the schema does not know.
	ErrMalformed = errors.New("calibration: malformed config")

	// ErrInvalid reports a well-formed document with inconsistent
	// contents: an unknown model or strategy, a missing parameter
	// block, or non-positive solver tuning.
	ErrInvalid = errors.New("calibration: invalid config")
)
