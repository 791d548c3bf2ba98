// Package analyze extracts placement-error samples from a replay played
// against a level.
package analyze

import (
	"github.com/okian/senstune/internal/domain/match"
	"github.com/okian/senstune/internal/domain/model"
)

// DefaultMinJumpDistance is the smallest target-to-target movement, in
// position units, for which a directional bias is measured. Shorter
// jumps give a movement direction too noisy to normalize against.
const DefaultMinJumpDistance = 40.0

// Option applies a configuration option to the Analyzer.
type Option func(*Analyzer)

// WithMatcher sets the temporal matcher used to pair targets with actions.
func WithMatcher(m *match.Matcher) Option {
	return func(a *Analyzer) {
		if m != nil {
			a.matcher = m
		}
	}
}

// WithMinJumpDistance sets the movement threshold for bias sampling.
func WithMinJumpDistance(units float64) Option {
	return func(a *Analyzer) {
		if units > 0 {
			a.minJump = units
		}
	}
}

// Result carries the samples extracted from one replay/level pair, in
// the level's time order. Every bias sample has a companion radial
// sample; the reverse does not hold.
type Result struct {
	Radial []float64
	Bias   []float64
}

// Analyzer walks a level's target timeline and measures how far each
// matched input landed from its target, both radially and along the
// direction of travel between consecutive targets.
type Analyzer struct {
	matcher *match.Matcher
	minJump float64
}

// New creates an Analyzer with default configuration.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		matcher: match.New(),
		minJump: DefaultMinJumpDistance,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze extracts error samples for every point target in the level.
// Targets with durations or without positions are skipped. A target
// with no qualifying action within tolerance contributes no samples but
// still advances the previous-target tracker, so bias is always
// measured against the level's designed movement pattern rather than
// the previously matched target.
func (a *Analyzer) Analyze(replay *model.Replay, level *model.Level) Result {
	var res Result
	var prev *model.Vec2

	for _, target := range level.Targets {
		if target.Kind != model.PointTarget {
			continue
		}
		tpos := target.Position

		action, ok := a.matcher.Find(replay.Actions, target.Time)
		if ok {
			errVec := action.Position.Sub(tpos)
			res.Radial = append(res.Radial, errVec.Len())

			if prev != nil {
				movement := tpos.Sub(*prev)
				if dist := movement.Len(); dist > a.minJump {
					// Signed error component along the movement
					// direction, normalized by jump length.
					// Positive means the cursor traveled past the
					// target, negative means it stopped short.
					along := errVec.Dot(movement) / dist
					res.Bias = append(res.Bias, along/dist)
				}
			}
		}

		prevPos := tpos
		prev = &prevPos
	}

	return res
}
