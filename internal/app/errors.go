package app

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrMissingReplaysDir = errors.New("replays directory does not exist")
	ErrNoLevels          = errors.New("no level files found")
	ErrNoReplays         = errors.New("no replay files found")
	ErrNoData            = errors.New("no data analyzed")
)
