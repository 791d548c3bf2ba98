package advisor_test

import (
	"testing"

	"github.com/okian/senstune/internal/domain/advisor"
	"github.com/okian/senstune/internal/domain/stats"
	. "github.com/smartystreets/goconvey/convey"
)

func TestAdvise(t *testing.T) {
	Convey("Given the sensitivity advisor", t, func() {
		Convey("When the bucket has no bias samples", func() {
			adv := advisor.Advise(1.0, nil)

			Convey("Then it reports insufficient data and no adjustment", func() {
				So(adv.Verdict, ShouldEqual, advisor.VerdictInsufficient)
				So(adv.MeanBias.Valid, ShouldBeFalse)
				So(adv.Suggested.Valid, ShouldBeFalse)
			})
		})

		Convey("When the mean bias is inside the balanced band", func() {
			// |1.4%| < 1.5% threshold
			adv := advisor.Advise(1.0, []float64{0.014})

			Convey("Then no change is suggested", func() {
				So(adv.Verdict, ShouldEqual, advisor.VerdictBalanced)
				So(adv.Suggested.Valid, ShouldBeFalse)
			})
		})

		Convey("When the player consistently overshoots", func() {
			adv := advisor.Advise(1.0, []float64{0.1, 0.1, 0.1})

			Convey("Then it suggests a damped reduction", func() {
				So(adv.Verdict, ShouldEqual, advisor.VerdictOvershoot)
				So(adv.Suggested.Valid, ShouldBeTrue)
				So(adv.Suggested.Value, ShouldAlmostEqual, 0.93, 1e-9)
				So(adv.ChangePct.Value, ShouldAlmostEqual, -7.0, 1e-9)
			})
		})

		Convey("When the player consistently undershoots", func() {
			adv := advisor.Advise(2.0, []float64{-0.05})

			Convey("Then it suggests a damped increase", func() {
				So(adv.Verdict, ShouldEqual, advisor.VerdictUndershoot)
				So(adv.Suggested.Value, ShouldAlmostEqual, 2.07, 1e-9)
			})
		})

		Convey("When the measured bias is extreme", func() {
			Convey("Then the suggestion never moves more than 50 percent", func() {
				for _, bias := range []float64{-1, -0.9, -0.75, 0.75, 0.9, 1} {
					adv := advisor.Advise(1.2, []float64{bias})
					So(adv.Suggested.Valid, ShouldBeTrue)
					So(adv.Suggested.Value, ShouldBeBetweenOrEqual, 0.6, 1.8)
				}
			})
		})
	})
}

func TestBestSensitivity(t *testing.T) {
	Convey("Given summarized buckets for several sensitivities", t, func() {
		Convey("When every bucket has a defined p95", func() {
			summaries := map[float64]stats.Summary{
				1.0: {Count: 50, P95: stats.Defined(42)},
				1.2: {Count: 50, P95: stats.Defined(37)},
				0.8: {Count: 50, P95: stats.Defined(55)},
			}

			best, ok := advisor.BestSensitivity(summaries)

			Convey("Then the lowest p95 wins", func() {
				So(ok, ShouldBeTrue)
				So(best, ShouldEqual, 1.2)
			})
		})

		Convey("When two buckets tie on p95", func() {
			summaries := map[float64]stats.Summary{
				1.4: {Count: 10, P95: stats.Defined(30)},
				0.9: {Count: 10, P95: stats.Defined(30)},
			}

			best, ok := advisor.BestSensitivity(summaries)

			Convey("Then ascending iteration keeps the lower sensitivity", func() {
				So(ok, ShouldBeTrue)
				So(best, ShouldEqual, 0.9)
			})
		})

		Convey("When a bucket has an undefined p95", func() {
			summaries := map[float64]stats.Summary{
				0.5: {Count: 0},
				1.0: {Count: 10, P95: stats.Defined(48)},
			}

			best, ok := advisor.BestSensitivity(summaries)

			Convey("Then the undefined bucket is excluded rather than compared", func() {
				So(ok, ShouldBeTrue)
				So(best, ShouldEqual, 1.0)
			})
		})

		Convey("When no bucket has data", func() {
			summaries := map[float64]stats.Summary{
				1.0: {Count: 0},
			}

			_, ok := advisor.BestSensitivity(summaries)

			Convey("Then no optimal sensitivity is reported", func() {
				So(ok, ShouldBeFalse)
			})
		})
	})
}
