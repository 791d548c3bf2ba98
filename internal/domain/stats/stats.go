// Package stats computes descriptive statistics over error samples.
package stats

import (
	"math"
	"sort"
)

// Percentile positions used by Summarize.
const (
	medianPercentile = 0.5
	p95Percentile    = 0.95
)

// Stat is a statistic that may be undefined. An empty sample set has no
// mean, median, or p95; Valid is false in that case and Value must not
// be read. This replaces a NaN sentinel so downstream comparisons never
// operate on non-ordered values.
type Stat struct {
	Value float64
	Valid bool
}

// Defined wraps a concrete statistic value.
func Defined(v float64) Stat {
	return Stat{Value: v, Valid: true}
}

// Undefined returns the sentinel for a statistic with no data.
func Undefined() Stat {
	return Stat{}
}

// Summary holds the descriptive statistics of one sample multiset.
type Summary struct {
	Count  int
	Mean   Stat
	Median Stat
	P95    Stat
}

// Summarize computes count, mean, median, and 95th percentile of the
// samples. Order statistics use linear interpolation between closest
// ranks. The input slice is not modified.
func Summarize(samples []float64) Summary {
	n := len(samples)
	if n == 0 {
		return Summary{
			Count:  0,
			Mean:   Undefined(),
			Median: Undefined(),
			P95:    Undefined(),
		}
	}

	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	return Summary{
		Count:  n,
		Mean:   Defined(sum / float64(n)),
		Median: Defined(percentile(sorted, medianPercentile)),
		P95:    Defined(percentile(sorted, p95Percentile)),
	}
}

// Mean returns the arithmetic mean, undefined for empty input.
func Mean(samples []float64) Stat {
	if len(samples) == 0 {
		return Undefined()
	}
	sum := 0.0
	for _, v := range samples {
		sum += v
	}
	return Defined(sum / float64(len(samples)))
}

// percentile computes the p-th order statistic of an ascending-sorted
// slice via linear interpolation between closest ranks.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	k := float64(n-1) * p
	f := math.Floor(k)
	c := math.Ceil(k)
	if f == c {
		return sorted[int(k)]
	}
	return sorted[int(f)] + (sorted[int(c)]-sorted[int(f)])*(k-f)
}
