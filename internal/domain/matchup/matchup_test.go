package matchup_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/mlbsim/internal/domain/matchup"
	"github.com/okian/mlbsim/internal/domain/montecarlo"
	"github.com/okian/mlbsim/internal/domain/rating"
	"github.com/okian/mlbsim/internal/domain/roster"
	. "github.com/smartystreets/goconvey/convey"
)

func state() roster.BaseState {
	return roster.BaseState{
		"Los Angeles Dodgers": {
			Name: "Los Angeles Dodgers",
			Players: []roster.Player{
				{ID: 3, Name: "Shohei Ohtani", Position: "DH", PositionType: roster.TwoWay},
				{ID: 2, Name: "Will Smith", Position: "C", PositionType: roster.Catcher},
				{ID: 1, Name: "Yoshinobu Yamamoto", Position: "SP", PositionType: roster.Pitcher},
				{ID: 4, Name: "Mookie Betts", Position: "SS", PositionType: roster.Infielder},
			},
			Record: roster.SeasonRecord{RunsScored: 825, RunsAllowed: 640, GamesPlayed: 162, Elo: 1580},
		},
		"Colorado Rockies": {
			Name:    "Colorado Rockies",
			Players: []roster.Player{{ID: 9, Name: "Ezequiel Tovar", Position: "SS", PositionType: roster.Infielder}},
			Record:  roster.SeasonRecord{RunsScored: 600, RunsAllowed: 950, GamesPlayed: 162, Elo: 1390},
		},
		"Athletics": {
			Name:   "Athletics",
			Record: roster.SeasonRecord{GamesPlayed: 162},
		},
	}
}

func TestAnalyze(t *testing.T) {
	Convey("Given a seeded analyzer", t, func() {
		a := matchup.NewAnalyzer(
			matchup.WithSampler(montecarlo.New(montecarlo.WithSeed(11), montecarlo.WithBounds(0, 100))),
			matchup.WithTrials(5_000),
		)
		ctx := context.Background()
		s := state()

		for _, method := range []rating.Method{rating.Pythagorean, rating.Elo} {
			Convey("When a strong team meets a weak one using "+string(method), func() {
				res, err := a.Analyze(ctx, s, "los angeles dodgers", "Colorado Rockies", method)
				So(err, ShouldBeNil)

				Convey("Then the strong team is favoured and probabilities sum to 100", func() {
					So(res.TeamAName, ShouldEqual, "Los Angeles Dodgers")
					So(res.TeamAWinProb, ShouldBeGreaterThan, res.TeamBWinProb)
					So(res.TeamAWinProb+res.TeamBWinProb, ShouldAlmostEqual, 100, 1e-9)
					So(res.TeamAScore, ShouldBeBetweenOrEqual, 0, 100)
					So(res.TeamBScore, ShouldBeBetweenOrEqual, 0, 100)
					So(res.Method, ShouldEqual, method)
					So(res.Trials, ShouldEqual, 5_000)
				})

				Convey("Then rosters are listed pitchers first", func() {
					So(res.TeamA, ShouldHaveLength, 4)
					So(res.TeamA[0].Name, ShouldEqual, "Yoshinobu Yamamoto")
					So(res.TeamA[1].Name, ShouldEqual, "Will Smith")
					So(res.TeamA[2].Name, ShouldEqual, "Mookie Betts")
					So(res.TeamA[3].Name, ShouldEqual, "Shohei Ohtani")
				})
			})
		}

		Convey("When a team is unknown", func() {
			_, err := a.Analyze(ctx, s, "Montreal Expos", "Colorado Rockies", rating.Pythagorean)
			So(errors.Is(err, matchup.ErrTeamNotFound), ShouldBeTrue)
		})

		Convey("When a team has no rating data", func() {
			_, err := a.Analyze(ctx, s, "Athletics", "Colorado Rockies", rating.Elo)
			So(errors.Is(err, matchup.ErrMissingRating), ShouldBeTrue)
			_, err = a.Analyze(ctx, s, "Colorado Rockies", "Athletics", rating.Pythagorean)
			So(errors.Is(err, matchup.ErrMissingRating), ShouldBeTrue)
		})

		Convey("When both sides are the same club", func() {
			_, err := a.Analyze(ctx, s, "Colorado Rockies", "colorado rockies", rating.Elo)
			So(errors.Is(err, matchup.ErrSameTeam), ShouldBeTrue)
		})
	})
}
