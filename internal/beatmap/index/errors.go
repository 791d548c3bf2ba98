package index

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingDir = errors.New("levels directory does not exist")
)
