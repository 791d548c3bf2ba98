package replay

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// sensPattern matches a "sens<number>" tag embedded in a replay
// filename, e.g. "stream practice sens1.05.osr".
var sensPattern = regexp.MustCompile(`(?i)sens(\d+(?:\.\d+)?)`)

// SensitivityFromName extracts a sensitivity value tagged into a replay
// filename. The second return is false when the name carries no tag.
func SensitivityFromName(name string) (float64, bool) {
	m := sensPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	sens, err := strconv.ParseFloat(m[1], 64)
	if err != nil || sens <= 0 {
		return 0, false
	}
	return sens, true
}

// ParseSensitivity validates one line of user-supplied sensitivity
// input. Empty input returns ErrNoSensitivity (the caller skips the
// replay); anything that is not a positive number returns
// ErrInvalidNumber (the caller re-prompts). Pure function: the
// interactive loop around it lives in the command layer.
func ParseSensitivity(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, ErrNoSensitivity
	}
	sens, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	if sens <= 0 {
		return 0, fmt.Errorf("%w: must be positive, got %v", ErrInvalidNumber, sens)
	}
	return sens, nil
}
