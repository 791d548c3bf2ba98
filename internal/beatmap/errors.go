package beatmap

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingHeader = errors.New("missing file format header")
)
