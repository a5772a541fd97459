package ranking_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/mlbsim/internal/domain/metric"
	"github.com/okian/mlbsim/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func specs() (metric.Spec, metric.Spec) {
	ops, _ := metric.Lookup("ops")
	era, _ := metric.Lookup("era")
	return ops, era
}

func TestRankWorkedExample(t *testing.T) {
	Convey("Given two teams whose z-scores cancel out", t, func() {
		ops, era := specs()
		in := ranking.Input{
			Hitting:  map[string]float64{"A": 0.850, "B": 0.750},
			Pitching: map[string]float64{"A": 3.80, "B": 3.40},
			Hitter:   ops,
			Pitcher:  era,
		}

		res, err := ranking.New().Rank(context.Background(), in)
		So(err, ShouldBeNil)

		Convey("Then the unknown teams fall back to the NL", func() {
			So(res.AL, ShouldBeEmpty)
			So(res.NL, ShouldHaveLength, 2)
		})

		Convey("Then the z-scores are flipped for ERA", func() {
			a, b := res.NL[0], res.NL[1]
			So(a.HitterZ, ShouldAlmostEqual, 1.0, 1e-9)
			So(b.HitterZ, ShouldAlmostEqual, -1.0, 1e-9)
			So(a.PitcherZ, ShouldAlmostEqual, -1.0, 1e-9)
			So(b.PitcherZ, ShouldAlmostEqual, 1.0, 1e-9)
		})

		Convey("Then the tie is broken by team name", func() {
			So(res.NL[0].Name, ShouldEqual, "A")
			So(res.NL[0].Rank, ShouldEqual, 1)
			So(res.NL[1].Name, ShouldEqual, "B")
			So(res.NL[1].Rank, ShouldEqual, 2)
			So(res.NL[0].Score, ShouldAlmostEqual, 0, 1e-9)
			So(res.NL[1].Score, ShouldAlmostEqual, 0, 1e-9)
		})

		Convey("Then the compact form rounds to three decimals", func() {
			b, err := json.Marshal(res.Compact())
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `{"AL":[],"NL":[["A",0],["B",0]]}`)
		})
	})
}

func TestRankProperties(t *testing.T) {
	Convey("Given a ranking engine", t, func() {
		ops, era := specs()
		engine := ranking.New()
		ctx := context.Background()

		Convey("When every team shares a value", func() {
			res, err := engine.Rank(ctx, ranking.Input{
				Hitting:  map[string]float64{"New York Yankees": 0.7, "Boston Red Sox": 0.7, "Chicago Cubs": 0.7},
				Pitching: map[string]float64{"New York Yankees": 4.1, "Boston Red Sox": 3.2, "Chicago Cubs": 3.9},
				Hitter:   ops,
				Pitcher:  era,
			})
			So(err, ShouldBeNil)

			Convey("Then every hitter z-score is exactly zero", func() {
				for _, team := range append(res.AL, res.NL...) {
					So(team.HitterZ, ShouldEqual, 0)
				}
			})
		})

		Convey("When a lower-is-better metric is ranked", func() {
			res, err := engine.Rank(ctx, ranking.Input{
				Hitting:  map[string]float64{"New York Yankees": 0.7, "Boston Red Sox": 0.7, "Tampa Bay Rays": 0.7},
				Pitching: map[string]float64{"New York Yankees": 4.5, "Boston Red Sox": 3.1, "Tampa Bay Rays": 3.9},
				Hitter:   ops,
				Pitcher:  era,
			})
			So(err, ShouldBeNil)

			Convey("Then the lowest ERA has the highest normalised z-score", func() {
				So(res.AL, ShouldHaveLength, 3)
				So(res.AL[0].Name, ShouldEqual, "Boston Red Sox")
				So(res.AL[1].Name, ShouldEqual, "Tampa Bay Rays")
				So(res.AL[2].Name, ShouldEqual, "New York Yankees")
				So(res.AL[0].PitcherZ, ShouldBeGreaterThanOrEqualTo, res.AL[1].PitcherZ)
				So(res.AL[1].PitcherZ, ShouldBeGreaterThanOrEqualTo, res.AL[2].PitcherZ)
			})
		})

		Convey("When a team has no hitting value", func() {
			res, err := engine.Rank(ctx, ranking.Input{
				Hitting:  map[string]float64{"Chicago Cubs": 0.8, "Miami Marlins": 0.6},
				Pitching: map[string]float64{"Chicago Cubs": 4.0, "Miami Marlins": 4.0, "Atlanta Braves": 3.0},
				Hitter:   ops,
				Pitcher:  era,
				Teams:    []string{"Atlanta Braves", "Chicago Cubs", "Miami Marlins"},
			})
			So(err, ShouldBeNil)

			Convey("Then it is scored at the league mean", func() {
				var braves ranking.Team
				for _, team := range res.NL {
					if team.Name == "Atlanta Braves" {
						braves = team
					}
				}
				So(braves.Name, ShouldEqual, "Atlanta Braves")
				So(braves.HitterZ, ShouldEqual, 0)
				So(braves.HitterValue, ShouldAlmostEqual, 0.7, 1e-12)
			})
		})

		Convey("When the same input is ranked twice", func() {
			in := ranking.Input{
				Hitting: map[string]float64{
					"Seattle Mariners": 0.71, "Houston Astros": 0.74, "Texas Rangers": 0.69,
					"San Diego Padres": 0.72, "Colorado Rockies": 0.68,
				},
				Pitching: map[string]float64{
					"Seattle Mariners": 3.6, "Houston Astros": 3.9, "Texas Rangers": 4.2,
					"San Diego Padres": 3.5, "Colorado Rockies": 5.1,
				},
				Hitter:  ops,
				Pitcher: era,
			}
			first, err := engine.Rank(ctx, in)
			So(err, ShouldBeNil)
			second, err := engine.Rank(ctx, in)
			So(err, ShouldBeNil)

			Convey("Then the results are identical", func() {
				So(second, ShouldResemble, first)
			})
		})

		Convey("When one of the aggregates is empty", func() {
			_, err := engine.Rank(ctx, ranking.Input{
				Hitting: map[string]float64{"Chicago Cubs": 0.8},
				Hitter:  ops,
				Pitcher: era,
			})

			Convey("Then it fails with an aggregation failure", func() {
				So(errors.Is(err, ranking.ErrAggregationFailure), ShouldBeTrue)
			})
		})

		Convey("When a custom league lookup is supplied", func() {
			e := ranking.New(ranking.WithLeagueLookup(func(string) (ranking.League, bool) {
				return ranking.AL, true
			}))
			res, err := e.Rank(ctx, ranking.Input{
				Hitting:  map[string]float64{"X": 1, "Y": 2},
				Pitching: map[string]float64{"X": 1, "Y": 2},
				Hitter:   ops,
				Pitcher:  era,
			})
			So(err, ShouldBeNil)

			Convey("Then it decides the split", func() {
				So(res.NL, ShouldBeEmpty)
				So(res.AL, ShouldHaveLength, 2)
				So(res.AL[0].Rank, ShouldEqual, 1)
				So(res.AL[1].Rank, ShouldEqual, 2)
			})
		})
	})
}

func TestRoundedOutput(t *testing.T) {
	Convey("Given a detailed result", t, func() {
		res := ranking.Result{AL: []ranking.Team{{
			Rank: 1, Name: "Boston Red Sox", Score: 1.23456, HitterValue: 0.765432,
			PitcherValue: 3.98766, HitterZ: 0.5556, PitcherZ: -0.0004,
		}}}

		Convey("Then Rounded keeps three decimals on z-scores and four on raw values", func() {
			r := res.Rounded().AL[0]
			So(r.Score, ShouldEqual, 1.235)
			So(r.HitterZ, ShouldEqual, 0.556)
			So(r.PitcherZ, ShouldEqual, 0)
			So(r.HitterValue, ShouldEqual, 0.7654)
			So(r.PitcherValue, ShouldEqual, 3.9877)
		})

		Convey("Then compact entries round trip as pairs", func() {
			b, err := json.Marshal(res.Compact().AL)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `[["Boston Red Sox",1.235]]`)

			var back []ranking.Entry
			So(json.Unmarshal(b, &back), ShouldBeNil)
			So(back[0].Name, ShouldEqual, "Boston Red Sox")
		})
	})
}
