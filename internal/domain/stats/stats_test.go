package stats_test

import (
	"math/rand"
	"testing"

	"github.com/okian/senstune/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSummarize(t *testing.T) {
	Convey("Given the statistics aggregator", t, func() {
		Convey("When summarizing an empty sample set", func() {
			sum := stats.Summarize(nil)

			Convey("Then count is zero and every statistic is undefined", func() {
				So(sum.Count, ShouldEqual, 0)
				So(sum.Mean.Valid, ShouldBeFalse)
				So(sum.Median.Valid, ShouldBeFalse)
				So(sum.P95.Valid, ShouldBeFalse)
			})
		})

		Convey("When summarizing a single sample", func() {
			sum := stats.Summarize([]float64{42.5})

			Convey("Then all three statistics equal the sole value", func() {
				So(sum.Count, ShouldEqual, 1)
				So(sum.Mean.Value, ShouldEqual, 42.5)
				So(sum.Median.Value, ShouldEqual, 42.5)
				So(sum.P95.Value, ShouldEqual, 42.5)
			})
		})

		Convey("When summarizing a known distribution", func() {
			// n=5: median position 2, p95 position 3.8
			sum := stats.Summarize([]float64{10, 20, 30, 40, 50})

			Convey("Then median and p95 use linear interpolation between closest ranks", func() {
				So(sum.Count, ShouldEqual, 5)
				So(sum.Mean.Value, ShouldEqual, 30)
				So(sum.Median.Value, ShouldEqual, 30)
				So(sum.P95.Value, ShouldAlmostEqual, 48, 1e-9)
			})
		})

		Convey("When the percentile position falls between ranks", func() {
			// n=2: median position 0.5 interpolates halfway
			sum := stats.Summarize([]float64{10, 20})

			Convey("Then the value is interpolated", func() {
				So(sum.Median.Value, ShouldAlmostEqual, 15, 1e-9)
				So(sum.P95.Value, ShouldAlmostEqual, 19.5, 1e-9)
			})
		})

		Convey("When the input arrives in a different order", func() {
			samples := []float64{3.5, 1.25, 99, 42, 7, 7, 0.5, 63, 12, 8}
			base := stats.Summarize(samples)

			shuffled := make([]float64, len(samples))
			copy(shuffled, samples)
			rng := rand.New(rand.NewSource(1))
			rng.Shuffle(len(shuffled), func(i, j int) {
				shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
			})
			reordered := stats.Summarize(shuffled)

			Convey("Then the summary is identical", func() {
				So(reordered, ShouldResemble, base)
			})

			Convey("And the input slice is left untouched", func() {
				So(samples[0], ShouldEqual, 3.5)
				So(samples[len(samples)-1], ShouldEqual, 8)
			})
		})
	})
}

func TestMean(t *testing.T) {
	Convey("Given the mean helper", t, func() {
		Convey("When the input is empty", func() {
			So(stats.Mean(nil).Valid, ShouldBeFalse)
		})

		Convey("When the input has samples", func() {
			m := stats.Mean([]float64{-0.1, 0.3})
			So(m.Valid, ShouldBeTrue)
			So(m.Value, ShouldAlmostEqual, 0.1, 1e-9)
		})
	})
}
