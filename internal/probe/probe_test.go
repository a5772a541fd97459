package probe

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/mlbsim/internal/adapters/http/api"
	service "github.com/okian/mlbsim/internal/app"
	"github.com/okian/mlbsim/internal/domain/ranking"
	"github.com/okian/mlbsim/internal/domain/roster"
	"github.com/okian/mlbsim/pkg/logger"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// leagueLoader serves one season with all thirty clubs.
type leagueLoader struct{}

func (leagueLoader) LoadSeason(_ context.Context, _ int) (roster.BaseState, error) {
	state := roster.BaseState{}
	id := int64(0)
	for i, name := range ranking.KnownTeams() {
		if name == "Oakland Athletics" {
			continue
		}
		f := float64(i)
		next := func() int64 { id++; return id }
		state[name] = &roster.TeamRoster{
			Name: name,
			Players: []roster.Player{
				{ID: next(), Name: name + " 1B", Position: "1B", PositionType: roster.Infielder, Hitting: map[string]float64{"ops": 0.650 + f*0.007}},
				{ID: next(), Name: name + " CF", Position: "CF", PositionType: roster.Outfielder, Hitting: map[string]float64{"ops": 0.900 - f*0.006}},
				{ID: next(), Name: name + " SP", Position: "SP", PositionType: roster.Pitcher, Pitching: map[string]float64{"era": 3.0 + f*0.05}},
				{ID: next(), Name: name + " RP", Position: "RP", PositionType: roster.Pitcher, Pitching: map[string]float64{"era": 4.5 - f*0.03}},
			},
			Record: roster.SeasonRecord{RunsScored: 650 + i*5, RunsAllowed: 760 - i*4, GamesPlayed: 162, Elo: 1450 + f*4},
		}
	}
	return state, nil
}

func (leagueLoader) LatestSeason(context.Context) (int, error) { return 2025, nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New(
		service.WithLoader(leagueLoader{}),
		service.WithTrials(200),
		service.WithSeed(1),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("failed to start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(url string) *Config {
	return &Config{
		BaseURL:       url,
		Scenarios:     12,
		TradesPer:     3,
		Workers:       4,
		Timeout:       5 * time.Second,
		HitterMetric:  "ops",
		PitcherMetric: "era",
		Seed:          7,
	}
}

func TestRun(t *testing.T) {
	Convey("Given a running simulator with a full league", t, func() {
		srv := newTestServer(t)
		ctx := context.Background()

		Convey("When the scenario run completes", func() {
			stats, err := Run(ctx, testConfig(srv.URL))

			Convey("Then every scenario holds the invariants", func() {
				So(err, ShouldBeNil)
				So(stats.ScenariosGenerated, ShouldEqual, 12)
				So(stats.ScenariosPosted, ShouldEqual, 12)
				So(stats.ScenariosPassed, ShouldEqual, 12)
				So(stats.Violations, ShouldEqual, 0)
			})
		})

		Convey("When the metric is invalid", func() {
			cfg := testConfig(srv.URL)
			cfg.HitterMetric = "era"
			_, err := Run(ctx, cfg)

			Convey("Then the base ranking fails with the API status", func() {
				var se *StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Status, ShouldEqual, http.StatusBadRequest)
			})
		})
	})

	Convey("Given no service", t, func() {
		_, err := Run(context.Background(), testConfig("http://127.0.0.1:1"))
		So(errors.Is(err, ErrUnhealthy), ShouldBeTrue)
	})
}

func TestGenerateScenarios(t *testing.T) {
	Convey("Given two small rosters", t, func() {
		rosters := map[string][]Player{
			"A": {{Name: "a1", Position: "SP"}, {Name: "a2", Position: "C"}},
			"B": {{Name: "b1", Position: "1B"}},
		}
		cfg := &Config{Scenarios: 20, TradesPer: 3}

		Convey("Then every trade moves a player its source team holds", func() {
			scenarios, err := generateScenarios(cfg, rosters, newRand(3))
			So(err, ShouldBeNil)
			So(scenarios, ShouldHaveLength, 20)
			for _, s := range scenarios {
				So(s.ID, ShouldNotBeEmpty)
				held := map[string]string{"a1": "A", "a2": "A", "b1": "B"}
				for _, tr := range s.Transactions {
					So(tr.FromTeam, ShouldNotEqual, tr.ToTeam)
					So(held[tr.PlayerName], ShouldEqual, tr.FromTeam)
					held[tr.PlayerName] = tr.ToTeam
				}
			}
		})

		Convey("Then the same seed gives the same trades", func() {
			a, _ := generateScenarios(cfg, rosters, newRand(11))
			b, _ := generateScenarios(cfg, rosters, newRand(11))
			for i := range a {
				So(a[i].Transactions, ShouldResemble, b[i].Transactions)
			}
		})

		Convey("Then one team is not enough", func() {
			_, err := generateScenarios(cfg, map[string][]Player{"A": rosters["A"]}, newRand(1))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestVerification(t *testing.T) {
	Convey("Given a ranking", t, func() {
		r := Ranking{
			AL: []RankedTeam{{Rank: 1, Name: "A", Score: 1}, {Rank: 2, Name: "B", Score: 0.5}},
			NL: []RankedTeam{{Rank: 1, Name: "C", Score: 0}},
		}

		Convey("Then a consistent ranking passes", func() {
			So(verifyRanking(r, 3), ShouldBeEmpty)
		})

		Convey("Then a wrong team count is reported", func() {
			So(verifyRanking(r, 4), ShouldHaveLength, 1)
		})

		Convey("Then gaps in ranks and rising scores are reported", func() {
			r.AL[1].Rank = 3
			r.AL[1].Score = 2
			So(verifyRanking(r, 3), ShouldHaveLength, 2)
		})

		Convey("Then a moved base ranking is reported", func() {
			after := Ranking{AL: append([]RankedTeam(nil), r.AL...), NL: r.NL}
			after.AL[0].Score = 0.9
			So(compareRankings(r, r), ShouldBeEmpty)
			So(compareRankings(r, after), ShouldHaveLength, 1)
		})

		Convey("Then a short simulation summary is reported", func() {
			res := SimulationResponse{Ranking: r, Simulation: SimulationSummary{Status: "success", TransactionsApplied: 1, TransactionMessages: []string{"x"}}}
			s := Scenario{Transactions: []Transaction{{}, {}}}
			So(verifySimulation(res, s, 3), ShouldHaveLength, 2)
		})
	})
}
