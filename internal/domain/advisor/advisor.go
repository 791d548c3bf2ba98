// Package advisor converts aggregated directional bias into a bounded
// sensitivity-adjustment suggestion.
package advisor

import (
	"sort"

	"github.com/okian/senstune/internal/domain/stats"
)

// Adjustment heuristic constants.
const (
	// balancedThresholdPct is the mean-bias magnitude, in percent,
	// below which no adjustment is suggested.
	balancedThresholdPct = 1.5
	// adjustFactor damps the correction so one pass never chases the
	// full measured bias.
	adjustFactor = 0.7
	// maxChangeRatio clamps a single suggestion to ±50% of the input
	// sensitivity.
	maxChangeRatio = 0.5
	percentScale   = 100.0
)

// Verdict classifies a bucket's aggregate directional bias.
type Verdict uint8

const (
	// VerdictInsufficient means the bucket had no bias samples.
	VerdictInsufficient Verdict = iota
	// VerdictBalanced means the mean bias is within the no-change band.
	VerdictBalanced
	// VerdictOvershoot means the cursor tends past targets; reduce sensitivity.
	VerdictOvershoot
	// VerdictUndershoot means the cursor tends short of targets; increase sensitivity.
	VerdictUndershoot
)

// String returns the human-facing verdict text.
func (v Verdict) String() string {
	switch v {
	case VerdictBalanced:
		return "balanced, no change"
	case VerdictOvershoot:
		return "overshoot, reduce sensitivity"
	case VerdictUndershoot:
		return "undershoot, increase sensitivity"
	default:
		return "insufficient data"
	}
}

// Advice is the advisor's output for one sensitivity bucket.
type Advice struct {
	Sensitivity float64
	Verdict     Verdict
	MeanBias    stats.Stat // mean directional bias, undefined without samples
	Suggested   stats.Stat // defined only for overshoot/undershoot verdicts
	ChangePct   stats.Stat // percent change from Sensitivity to Suggested
}

// Advise classifies the bucket's mean directional bias and, when a
// correction is warranted, computes a damped suggestion clamped to
// ±50% of the tested sensitivity. It is meaningful when exactly one
// sensitivity was tested; with several, use BestSensitivity instead.
func Advise(sensitivity float64, biases []float64) Advice {
	adv := Advice{
		Sensitivity: sensitivity,
		MeanBias:    stats.Mean(biases),
	}
	if !adv.MeanBias.Valid {
		adv.Verdict = VerdictInsufficient
		return adv
	}

	bias := adv.MeanBias.Value
	if pct := bias * percentScale; pct > -balancedThresholdPct && pct < balancedThresholdPct {
		adv.Verdict = VerdictBalanced
		return adv
	}
	if bias > 0 {
		adv.Verdict = VerdictOvershoot
	} else {
		adv.Verdict = VerdictUndershoot
	}

	suggested := sensitivity * (1 - bias*adjustFactor)
	lo := sensitivity * (1 - maxChangeRatio)
	hi := sensitivity * (1 + maxChangeRatio)
	if suggested < lo {
		suggested = lo
	}
	if suggested > hi {
		suggested = hi
	}

	adv.Suggested = stats.Defined(suggested)
	adv.ChangePct = stats.Defined((suggested - sensitivity) / sensitivity * percentScale)
	return adv
}

// BestSensitivity picks, among the summarized buckets, the sensitivity
// with the lowest defined p95 radial error. Buckets whose p95 is
// undefined are excluded. Iteration is over ascending sensitivity, so
// an exact tie resolves to the lower value. The second return is false
// when no bucket has a defined p95.
func BestSensitivity(summaries map[float64]stats.Summary) (float64, bool) {
	keys := make([]float64, 0, len(summaries))
	for s := range summaries {
		keys = append(keys, s)
	}
	sort.Float64s(keys)

	best := 0.0
	bestScore := 0.0
	found := false
	for _, s := range keys {
		p95 := summaries[s].P95
		if !p95.Valid {
			continue
		}
		if !found || p95.Value < bestScore {
			best = s
			bestScore = p95.Value
			found = true
		}
	}
	return best, found
}
