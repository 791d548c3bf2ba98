// Package match locates the recorded input action nearest a target instant.
package match

import (
	"math"

	"github.com/okian/senstune/internal/domain/model"
)

// DefaultTolerance is the widest accepted distance between a target's
// time and a qualifying action, in milliseconds.
const DefaultTolerance = 80.0

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithTolerance sets the matching window in milliseconds.
func WithTolerance(ms float64) Option {
	return func(m *Matcher) {
		if ms > 0 {
			m.tolerance = ms
		}
	}
}

// Matcher finds, for a target time, the nearest action whose press flag
// is set within a fixed tolerance window. The scan is linear: replays
// are short and each target is matched at most once per replay.
type Matcher struct {
	tolerance float64
}

// New creates a Matcher with default configuration.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		tolerance: DefaultTolerance,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tolerance returns the configured matching window in milliseconds.
func (m *Matcher) Tolerance() float64 {
	return m.tolerance
}

// Find returns the pressed sample with the smallest absolute time
// distance to targetTime, provided that distance is within tolerance
// (inclusive). The second return is false when no sample qualifies.
// Exact ties keep the first sample encountered in sequence order.
func (m *Matcher) Find(actions []model.ActionSample, targetTime float64) (model.ActionSample, bool) {
	var best model.ActionSample
	bestDelta := math.Inf(1)
	found := false

	for _, act := range actions {
		if !act.Pressed {
			continue
		}
		delta := math.Abs(act.Offset - targetTime)
		if delta > m.tolerance {
			continue
		}
		if delta < bestDelta {
			bestDelta = delta
			best = act
			found = true
		}
	}

	return best, found
}
