package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/mlbsim/internal/adapters/cache"
	"github.com/okian/mlbsim/internal/adapters/http/api"
	service "github.com/okian/mlbsim/internal/app"
	"github.com/okian/mlbsim/internal/domain/matchup"
	"github.com/okian/mlbsim/internal/domain/metric"
	"github.com/okian/mlbsim/internal/domain/projection"
	"github.com/okian/mlbsim/internal/domain/ranking"
	"github.com/okian/mlbsim/internal/domain/rating"
	"github.com/okian/mlbsim/internal/domain/simulation"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies records what the handlers pass through.
type mockDependencies struct {
	outcome simulation.Outcome
	err     error

	lastRequest simulation.Request
	rankCalls   int
	simCalls    int

	info       cache.Info
	lastSeason int

	matchupRes service.MatchupResult
	projRes    service.ProjectionResult
	lastMethod string
	lastSims   int
}

func (m *mockDependencies) Rank(_ context.Context, req simulation.Request) (simulation.Outcome, error) {
	m.rankCalls++
	m.lastRequest = req
	return m.outcome, m.err
}

func (m *mockDependencies) Simulate(_ context.Context, req simulation.Request) (simulation.Outcome, error) {
	m.simCalls++
	m.lastRequest = req
	return m.outcome, m.err
}

func (m *mockDependencies) CacheInfo(season int) (cache.Info, error) {
	m.lastSeason = season
	return m.info, m.err
}

func (m *mockDependencies) Matchup(_ context.Context, _, _, method string, season int) (service.MatchupResult, error) {
	m.lastMethod = method
	m.lastSeason = season
	return m.matchupRes, m.err
}

func (m *mockDependencies) Project(_ context.Context, method string, season, sims int) (service.ProjectionResult, error) {
	m.lastMethod = method
	m.lastSeason = season
	m.lastSims = sims
	return m.projRes, m.err
}

func (m *mockDependencies) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func workedOutcome() simulation.Outcome {
	hitter, _ := metric.ValidateHitter("ops")
	pitcher, _ := metric.ValidatePitcher("era")
	return simulation.Outcome{
		Ranking: ranking.Result{
			AL: []ranking.Team{},
			NL: []ranking.Team{
				{Rank: 1, Name: "A", Score: 0, HitterValue: 0.9, PitcherValue: 3.0, HitterZ: 1, PitcherZ: -1},
				{Rank: 2, Name: "B", Score: 0, HitterValue: 0.7, PitcherValue: 5.0, HitterZ: -1, PitcherZ: 1},
			},
		},
		Hitter:  hitter,
		Pitcher: pitcher,
		Season:  2025,
	}
}

func newMux(deps *mockDependencies, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, opts...).Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]any {
	var out map[string]any
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(&mockDependencies{outcome: workedOutcome()})

		Convey("Then the health endpoint serves metrics", func() {
			w := do(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint serves the provider's map", func() {
			w := do(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"started":true`)
		})

		Convey("Then unknown paths are not found", func() {
			w := do(mux, "GET", "/unknown", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("Then business endpoints reject the wrong method", func() {
			So(do(mux, "GET", "/api/ranking", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, "POST", "/api/cache/status", "").Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestRankingHandler(t *testing.T) {
	Convey("Given the ranking endpoint", t, func() {
		deps := &mockDependencies{outcome: workedOutcome()}
		mux := newMux(deps)

		Convey("When a compact ranking is requested", func() {
			w := do(mux, "POST", "/api/ranking", `{"hitter_metric":"ops","pitcher_metric":"era"}`)

			Convey("Then entries are name/score pairs per league", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"AL":[],"NL":[["A",0],["B",0]]}`)
				So(deps.lastRequest.Season, ShouldEqual, 0)
				So(deps.lastRequest.Transactions, ShouldBeEmpty)
			})
		})

		Convey("When details are requested", func() {
			deps.outcome.Details = true
			w := do(mux, "POST", "/api/ranking", `{"hitter_metric":"ops","pitcher_metric":"era","season":2025,"details":true}`)

			Convey("Then full records and the echoed inputs come back", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastRequest.Details, ShouldBeTrue)
				So(deps.lastRequest.Season, ShouldEqual, 2025)

				var body struct {
					NL            []ranking.Team `json:"NL"`
					Season        int            `json:"season"`
					HitterMetric  string         `json:"hitter_metric"`
					PitcherMetric string         `json:"pitcher_metric"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Season, ShouldEqual, 2025)
				So(body.HitterMetric, ShouldEqual, "ops")
				So(body.PitcherMetric, ShouldEqual, "era")
				So(body.NL, ShouldHaveLength, 2)
				So(body.NL[0].HitterZ, ShouldEqual, 1)
			})
		})

		Convey("When a metric name is missing", func() {
			w := do(mux, "POST", "/api/ranking", `{"hitter_metric":"ops"}`)

			Convey("Then it is a missing field and the engine is not called", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "missing_field")
				So(deps.rankCalls, ShouldEqual, 0)
			})
		})

		Convey("When the engine rejects a metric", func() {
			deps.err = &metric.UnknownMetricError{Name: "xyz", Kind: metric.Hitting, Valid: metric.Names(metric.Hitting)}
			w := do(mux, "POST", "/api/ranking", `{"hitter_metric":"xyz","pitcher_metric":"era"}`)

			Convey("Then the valid names are listed", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "unknown_metric")
				So(body["valid_metrics"], ShouldHaveLength, len(metric.Names(metric.Hitting)))
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, "POST", "/api/ranking", `{`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "bad_request")
		})

		Convey("When the data is unavailable", func() {
			deps.err = fmt.Errorf("season 2025: %w", cache.ErrDataUnavailable)
			w := do(mux, "POST", "/api/ranking", `{"hitter_metric":"ops","pitcher_metric":"era"}`)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w)["code"], ShouldEqual, "data_unavailable")
		})

		Convey("When aggregation fails", func() {
			deps.err = ranking.ErrAggregationFailure
			w := do(mux, "POST", "/api/ranking", `{"hitter_metric":"ops","pitcher_metric":"era"}`)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w)["code"], ShouldEqual, "aggregation_failure")
		})
	})
}

func TestSimulationHandler(t *testing.T) {
	Convey("Given the simulation endpoint", t, func() {
		deps := &mockDependencies{outcome: workedOutcome()}
		mux := newMux(deps)

		Convey("When transactions are missing", func() {
			w := do(mux, "POST", "/api/simulation/ranking", `{"hitter_metric":"ops","pitcher_metric":"era","transactions":[]}`)

			Convey("Then the request is rejected before simulating", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "missing_field")
				So(deps.simCalls, ShouldEqual, 0)
			})
		})

		Convey("When a trade has no position", func() {
			w := do(mux, "POST", "/api/simulation/ranking", `{
				"hitter_metric":"ops","pitcher_metric":"era",
				"transactions":[{"player_name":"P","from_team":"B","to_team":"A"}]}`)

			Convey("Then the missing field is reported before simulating", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "missing_field")
				So(decodeError(w)["message"], ShouldContainSubstring, "position")
				So(deps.simCalls, ShouldEqual, 0)
			})
		})

		Convey("When a trade is simulated", func() {
			deps.outcome.Messages = []string{"Traded P from B to A"}
			w := do(mux, "POST", "/api/simulation/ranking", `{
				"hitter_metric":"ops","pitcher_metric":"era",
				"transactions":[{"player_name":"P","position":"SP","from_team":"B","to_team":"A"}]}`)

			Convey("Then the ranking carries a simulation summary", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastRequest.Transactions, ShouldHaveLength, 1)
				So(deps.lastRequest.Transactions[0].PlayerName, ShouldEqual, "P")

				var body struct {
					NL         []ranking.Entry `json:"NL"`
					Simulation struct {
						Season              int      `json:"season"`
						HitterMetric        string   `json:"hitter_metric"`
						TransactionsApplied int      `json:"transactions_applied"`
						TransactionMessages []string `json:"transaction_messages"`
						Status              string   `json:"status"`
					} `json:"simulation"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.NL, ShouldHaveLength, 2)
				So(body.NL[0].Name, ShouldEqual, "A")
				So(body.Simulation.Season, ShouldEqual, 2025)
				So(body.Simulation.HitterMetric, ShouldEqual, "ops")
				So(body.Simulation.TransactionsApplied, ShouldEqual, 1)
				So(body.Simulation.TransactionMessages, ShouldResemble, []string{"Traded P from B to A"})
				So(body.Simulation.Status, ShouldEqual, "success")
			})
		})

		Convey("When the player is not on the source team", func() {
			deps.err = fmt.Errorf("transaction 0: %w", simulation.ErrPlayerNotFound)
			w := do(mux, "POST", "/api/simulation/ranking", `{
				"hitter_metric":"ops","pitcher_metric":"era",
				"transactions":[{"player_name":"P","position":"SP","from_team":"B","to_team":"A"}]}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "player_not_found")
		})
	})
}

func TestCacheHandler(t *testing.T) {
	Convey("Given the cache status endpoint", t, func() {
		deps := &mockDependencies{info: cache.Info{Season: 2024, Key: cache.Key(2024), IsCached: true, TeamCount: 30, TTL: 3600}}
		mux := newMux(deps)

		Convey("When a season is given", func() {
			w := do(mux, "GET", "/api/cache/status?season=2024", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastSeason, ShouldEqual, 2024)
			So(w.Body.String(), ShouldContainSubstring, `"cache_key":"mlb_players_base_state_2024"`)
			So(w.Body.String(), ShouldContainSubstring, `"is_cached":true`)
		})

		Convey("When no season is given the default is asked for", func() {
			w := do(mux, "GET", "/api/cache/status", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(deps.lastSeason, ShouldEqual, 0)
		})

		Convey("When the season is malformed", func() {
			w := do(mux, "GET", "/api/cache/status?season=abc", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the service is not ready", func() {
			deps.err = service.ErrNotStarted
			w := do(mux, "GET", "/api/cache/status", "")
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}

func TestMatchupHandler(t *testing.T) {
	Convey("Given the matchup endpoint", t, func() {
		deps := &mockDependencies{matchupRes: service.MatchupResult{
			Result: matchup.Result{TeamAName: "A", TeamBName: "B", TeamAWinProb: 61.5, TeamBWinProb: 38.5, Method: rating.Elo, Trials: 10000},
			Season: 2025,
		}}
		mux := newMux(deps)

		Convey("When both teams are given", func() {
			w := do(mux, "POST", "/api/matchup", `{"team_A":"A","team_B":"B","method":"Elo"}`)

			Convey("Then the result and season are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastMethod, ShouldEqual, "Elo")
				So(w.Body.String(), ShouldContainSubstring, `"team_A_win_prob":61.5`)
				So(w.Body.String(), ShouldContainSubstring, `"season":2025`)
			})
		})

		Convey("When a team is missing", func() {
			w := do(mux, "POST", "/api/matchup", `{"team_A":"A"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a team is unknown", func() {
			deps.err = fmt.Errorf("%w: Z", matchup.ErrTeamNotFound)
			w := do(mux, "POST", "/api/matchup", `{"team_A":"A","team_B":"Z"}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the method is unknown", func() {
			deps.err = fmt.Errorf("%w: coin", rating.ErrUnknownMethod)
			w := do(mux, "POST", "/api/matchup", `{"team_A":"A","team_B":"B","method":"coin"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decodeError(w)["code"], ShouldEqual, "unknown_method")
		})
	})
}

func TestProjectionHandler(t *testing.T) {
	Convey("Given the projection endpoint", t, func() {
		deps := &mockDependencies{projRes: service.ProjectionResult{
			Result: projection.Result{AL: []projection.Team{}, NL: []projection.Team{}, ExpectedWins: map[string]float64{}, Method: rating.Pythagorean, Simulations: 1000},
			Season: 2025,
		}}
		mux := newMux(deps)

		Convey("When the body is empty", func() {
			w := do(mux, "POST", "/api/projection", "")

			Convey("Then defaults are passed through", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastMethod, ShouldEqual, "")
				So(deps.lastSims, ShouldEqual, 0)
				So(w.Body.String(), ShouldContainSubstring, `"simulations":1000`)
			})
		})

		Convey("When simulations are out of range", func() {
			w := do(mux, "POST", "/api/projection", fmt.Sprintf(`{"simulations":%d}`, api.MaxSimulations+1))
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given a rate limited server", t, func() {
		deps := &mockDependencies{outcome: workedOutcome()}
		mux := newMux(deps, api.WithRateLimit(1, 1))
		body := `{"hitter_metric":"ops","pitcher_metric":"era"}`

		Convey("Then requests above the burst are rejected", func() {
			So(do(mux, "POST", "/api/ranking", body).Code, ShouldEqual, http.StatusOK)
			w := do(mux, "POST", "/api/ranking", body)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)
			So(decodeError(w)["code"], ShouldEqual, "rate_limited")
			So(deps.rankCalls, ShouldEqual, 1)
		})

		Convey("Then operational endpoints are not limited", func() {
			for i := 0; i < 3; i++ {
				So(do(mux, "GET", "/stats", "").Code, ShouldEqual, http.StatusOK)
			}
		})
	})

	Convey("Given the request id middleware", t, func() {
		mux := newMux(&mockDependencies{info: cache.Info{Season: 2025}})

		Convey("When the caller sends an id it is echoed", func() {
			req := httptest.NewRequest("GET", "/api/cache/status", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
		})

		Convey("When the caller sends none one is generated", func() {
			w := do(mux, "GET", "/api/cache/status", "")
			So(w.Header().Get(api.RequestIDHeader), ShouldHaveLength, 36)
		})
	})
}
