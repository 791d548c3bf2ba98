// Package model contains domain models passed between layers.
package model

import "math"

// GameMode identifies the ruleset a replay was recorded under.
type GameMode uint8

// Game modes as encoded in replay headers.
const (
	ModeStandard GameMode = iota
	ModeTaiko
	ModeCatch
	ModeMania
)

// String returns the human-readable mode name.
func (m GameMode) String() string {
	switch m {
	case ModeStandard:
		return "standard"
	case ModeTaiko:
		return "taiko"
	case ModeCatch:
		return "catch"
	case ModeMania:
		return "mania"
	default:
		return "unknown"
	}
}

// TargetKind discriminates the shapes a level timeline event can take.
// Only PointTarget events are scored by the analyzer.
type TargetKind uint8

const (
	// PointTarget is a positional target hit at a single instant.
	PointTarget TargetKind = iota
	// DurationTarget is a positional target held over a time span.
	DurationTarget
	// SpinTarget is a non-positional target held over a time span.
	SpinTarget
)

// Vec2 is a point or displacement in level space.
type Vec2 struct {
	X float64
	Y float64
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// TargetEvent is one scorable point on the level timeline.
type TargetEvent struct {
	Position Vec2
	Time     float64 // milliseconds from level start
	Kind     TargetKind
}

// Level is a time-ascending sequence of target events plus the content
// fingerprint replays reference it by.
type Level struct {
	Fingerprint string // hex MD5 of the raw level file bytes
	Mode        GameMode
	Targets     []TargetEvent
}

// ActionSample is one recorded input sample.
type ActionSample struct {
	Offset   float64 // milliseconds since replay start
	Position Vec2
	Pressed  bool // any primary button or key held
}

// Replay is a recorded session: a time-ascending sequence of action
// samples and the fingerprint of the level it was played against.
type Replay struct {
	Mode        GameMode
	Fingerprint string // hex MD5 of the target level
	Player      string
	Actions     []ActionSample
}

// SensitivityBucket accumulates the error samples contributed by every
// replay assigned one sensitivity value.
type SensitivityBucket struct {
	Sensitivity float64
	Radial      []float64 // Euclidean placement errors
	Bias        []float64 // movement-normalized directional biases
}

// Merge appends one replay's samples to the bucket.
func (b *SensitivityBucket) Merge(radial, bias []float64) {
	b.Radial = append(b.Radial, radial...)
	b.Bias = append(b.Bias, bias...)
}
