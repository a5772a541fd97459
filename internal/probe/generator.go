package probe

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/okian/mlbsim/pkg/logger"
)

// fetchRosters collects the players of every team through /api/matchup,
// two teams per request. Teams the endpoint cannot rate are left out.
func fetchRosters(ctx context.Context, c *HTTPClient, config *Config, teams []string) (map[string][]Player, error) {
	var (
		mu      sync.Mutex
		rosters = make(map[string][]Player, len(teams))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Workers, 1))

	for i := 0; i < len(teams); i += 2 {
		a, b := teams[i], teams[(i+1)%len(teams)]
		if a == b {
			continue
		}
		g.Go(func() error {
			res, err := fetchPair(gctx, c, config.Season, a, b)
			if err != nil {
				var se *StatusError
				if errors.As(err, &se) && se.Status == http.StatusNotFound {
					logger.Get().Warn(gctx, "matchup cannot list teams", logger.String("teamA", a), logger.String("teamB", b), logger.Error(err))
					return nil
				}
				return err
			}
			mu.Lock()
			rosters[res.TeamAName] = res.TeamA
			rosters[res.TeamBName] = res.TeamB
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch rosters: %w", err)
	}
	return rosters, nil
}

// fetchPair tries the Pythagorean method first and falls back to Elo when
// the run totals are missing.
func fetchPair(ctx context.Context, c *HTTPClient, season int, a, b string) (matchupResponse, error) {
	var (
		res matchupResponse
		err error
	)
	for _, method := range []string{"Pythagorean", "Elo"} {
		req := map[string]any{"team_A": a, "team_B": b, "method": method}
		if season > 0 {
			req["season"] = season
		}
		res = matchupResponse{}
		if err = c.PostJSON(ctx, "/api/matchup", req, &res); err == nil {
			return res, nil
		}
	}
	return res, err
}

// newRand returns the scenario source; seed 0 derives one from the clock.
func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// generateScenarios builds random trade lists. Trades inside a scenario are
// applied to a local copy so that later trades stay valid.
func generateScenarios(config *Config, rosters map[string][]Player, rng *rand.Rand) ([]Scenario, error) {
	teams := make([]string, 0, len(rosters))
	for name, players := range rosters {
		if len(players) > 0 {
			teams = append(teams, name)
		}
	}
	if len(teams) < 2 {
		return nil, fmt.Errorf("need two teams with players, have %d", len(teams))
	}
	sort.Strings(teams)

	trades := max(config.TradesPer, 1)
	out := make([]Scenario, config.Scenarios)
	for i := range out {
		local := make(map[string][]Player, len(rosters))
		for name, players := range rosters {
			local[name] = append([]Player(nil), players...)
		}

		s := Scenario{ID: uuid.NewString(), Transactions: make([]Transaction, 0, trades)}
		for range trades {
			fi := rng.IntN(len(teams))
			from := teams[fi]
			if len(local[from]) == 0 {
				continue
			}
			ti := rng.IntN(len(teams) - 1)
			if ti >= fi {
				ti++
			}
			to := teams[ti]
			idx := rng.IntN(len(local[from]))
			p := local[from][idx]
			local[from] = append(local[from][:idx], local[from][idx+1:]...)
			local[to] = append(local[to], p)

			s.Transactions = append(s.Transactions, Transaction{
				PlayerName: p.Name,
				Position:   p.Position,
				FromTeam:   from,
				ToTeam:     to,
			})
		}
		if len(s.Transactions) == 0 {
			return nil, fmt.Errorf("scenario %d has no trades", i)
		}
		out[i] = s
	}
	return out, nil
}
