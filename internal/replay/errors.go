package replay

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnsupportedMode = errors.New("replay is not a standard-mode recording")
	ErrTruncated       = errors.New("replay file truncated")
	ErrNoSensitivity   = errors.New("no sensitivity value")
	ErrInvalidNumber   = errors.New("invalid sensitivity number")
)
