package analyze_test

import (
	"testing"

	"github.com/okian/senstune/internal/domain/analyze"
	"github.com/okian/senstune/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func point(x, y, t float64) model.TargetEvent {
	return model.TargetEvent{Position: model.Vec2{X: x, Y: y}, Time: t, Kind: model.PointTarget}
}

func click(offset, x, y float64) model.ActionSample {
	return model.ActionSample{Offset: offset, Position: model.Vec2{X: x, Y: y}, Pressed: true}
}

func TestAnalyze(t *testing.T) {
	Convey("Given an analyzer with defaults", t, func() {
		a := analyze.New()

		Convey("When a replay has one click near the second of two targets", func() {
			// Two point targets 100 units apart; the only click lands
			// 10 units past the second one, 500ms in.
			level := &model.Level{Targets: []model.TargetEvent{
				point(0, 0, 0),
				point(100, 0, 500),
			}}
			rep := &model.Replay{Actions: []model.ActionSample{
				click(500, 110, 0),
			}}

			res := a.Analyze(rep, level)

			Convey("Then the unmatched first target contributes nothing", func() {
				So(res.Radial, ShouldHaveLength, 1)
			})

			Convey("And the radial error is the distance past the target", func() {
				So(res.Radial[0], ShouldAlmostEqual, 10.0, 1e-9)
			})

			Convey("And the overshoot shows as a positive movement-normalized bias", func() {
				So(res.Bias, ShouldHaveLength, 1)
				So(res.Bias[0], ShouldAlmostEqual, 0.1, 1e-9)
			})
		})

		Convey("When the click stops short of the second target", func() {
			level := &model.Level{Targets: []model.TargetEvent{
				point(0, 0, 0),
				point(100, 0, 500),
			}}
			rep := &model.Replay{Actions: []model.ActionSample{
				click(500, 80, 0),
			}}

			res := a.Analyze(rep, level)

			Convey("Then the bias is negative", func() {
				So(res.Bias, ShouldHaveLength, 1)
				So(res.Bias[0], ShouldAlmostEqual, -0.2, 1e-9)
			})
		})

		Convey("When consecutive targets sit closer than the jump threshold", func() {
			level := &model.Level{Targets: []model.TargetEvent{
				point(0, 0, 0),
				point(30, 0, 500),
			}}
			rep := &model.Replay{Actions: []model.ActionSample{
				click(0, 5, 0),
				click(500, 35, 0),
			}}

			res := a.Analyze(rep, level)

			Convey("Then radial errors are measured but no bias is", func() {
				So(res.Radial, ShouldHaveLength, 2)
				So(res.Bias, ShouldBeEmpty)
			})
		})

		Convey("When the level mixes target kinds", func() {
			level := &model.Level{Targets: []model.TargetEvent{
				point(0, 0, 0),
				{Position: model.Vec2{X: 200, Y: 0}, Time: 250, Kind: model.DurationTarget},
				{Time: 400, Kind: model.SpinTarget},
				point(100, 0, 500),
			}}
			rep := &model.Replay{Actions: []model.ActionSample{
				click(0, 0, 0),
				click(250, 200, 0),
				click(500, 100, 0),
			}}

			res := a.Analyze(rep, level)

			Convey("Then only point targets are scored", func() {
				So(res.Radial, ShouldHaveLength, 2)
			})

			Convey("And the movement vector spans point targets only", func() {
				// jump is (0,0)->(100,0): the duration and spin
				// targets never become the previous target
				So(res.Bias, ShouldHaveLength, 1)
				So(res.Bias[0], ShouldAlmostEqual, 0, 1e-9)
			})
		})

		Convey("When the first target has no matching click", func() {
			// The tracker still advances past the unmatched target, so
			// the second target's movement originates there.
			level := &model.Level{Targets: []model.TargetEvent{
				point(0, 0, 0),
				point(100, 0, 1000),
			}}
			rep := &model.Replay{Actions: []model.ActionSample{
				click(1000, 120, 0),
			}}

			res := a.Analyze(rep, level)

			Convey("Then bias is measured relative to the designed movement", func() {
				So(res.Bias, ShouldHaveLength, 1)
				So(res.Bias[0], ShouldAlmostEqual, 0.2, 1e-9)
			})
		})

		Convey("For any replay and level", func() {
			level := &model.Level{Targets: []model.TargetEvent{
				point(0, 0, 0),
				point(20, 0, 300),
				point(200, 0, 600),
				point(210, 50, 900),
			}}
			rep := &model.Replay{Actions: []model.ActionSample{
				click(10, 3, 1),
				click(310, 22, -2),
				click(590, 190, 4),
				click(905, 212, 55),
			}}

			res := a.Analyze(rep, level)

			Convey("Then every bias sample has a companion radial sample", func() {
				So(len(res.Radial), ShouldBeGreaterThanOrEqualTo, len(res.Bias))
			})
		})
	})

	Convey("Given an analyzer with a raised jump threshold", t, func() {
		a := analyze.New(analyze.WithMinJumpDistance(150))

		Convey("When targets are 100 units apart", func() {
			level := &model.Level{Targets: []model.TargetEvent{
				point(0, 0, 0),
				point(100, 0, 500),
			}}
			rep := &model.Replay{Actions: []model.ActionSample{
				click(0, 0, 0),
				click(500, 110, 0),
			}}

			res := a.Analyze(rep, level)

			Convey("Then no bias is sampled", func() {
				So(res.Radial, ShouldHaveLength, 2)
				So(res.Bias, ShouldBeEmpty)
			})
		})
	})
}
