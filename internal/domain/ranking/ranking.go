// Package ranking orders teams by the sum of two direction-normalised z-scores.
package ranking

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/okian/mlbsim/internal/domain/metric"
	"github.com/okian/mlbsim/pkg/logger"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Input is everything one ranking needs.
type Input struct {
	// Hitting and Pitching map team name to the aggregated metric value.
	// A team may be absent from either map.
	Hitting  map[string]float64
	Pitching map[string]float64

	Hitter  metric.Spec
	Pitcher metric.Spec

	// Teams is the set of teams to rank. When empty, the union of the keys
	// of Hitting and Pitching is used.
	Teams []string
}

// Team is one ranked row.
type Team struct {
	Rank         int     `json:"rank"`
	Name         string  `json:"team_name"`
	Score        float64 `json:"score"`
	HitterValue  float64 `json:"hitter_value"`
	PitcherValue float64 `json:"pitcher_value"`
	HitterZ      float64 `json:"hitter_z_score"`
	PitcherZ     float64 `json:"pitcher_z_score"`
}

// Result holds the ranked teams of each league, best first.
type Result struct {
	AL []Team `json:"AL"`
	NL []Team `json:"NL"`
}

// League returns the ranked teams of l.
func (r Result) League(l League) []Team {
	if l == AL {
		return r.AL
	}
	return r.NL
}

// Moments are the population mean and standard deviation of one metric.
type Moments struct {
	Mean   float64
	StdDev float64
}

// Z returns the z-score of v, defined as 0 when the deviation is 0.
func (m Moments) Z(v float64) float64 {
	if m.StdDev == 0 {
		return 0
	}
	return (v - m.Mean) / m.StdDev
}

// Engine ranks teams. The zero configuration uses the built-in league table.
type Engine struct {
	logger   logger.Logger
	leagueOf func(team string) (League, bool)
}

// New creates a ranking engine.
func New(opts ...Option) *Engine {
	e := &Engine{leagueOf: LeagueOf}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rank computes the league-split ranking for in.
//
// A team missing from one of the metric maps is scored at that metric's mean,
// so its z-score for the metric is 0. Teams are ordered by score descending
// with ties broken by name, and ranks are 1-based within each league.
func (e *Engine) Rank(ctx context.Context, in Input) (Result, error) {
	if len(in.Hitting) == 0 || len(in.Pitching) == 0 {
		return Result{}, fmt.Errorf("%w: %d hitting and %d pitching team values", ErrAggregationFailure, len(in.Hitting), len(in.Pitching))
	}

	hm := moments(in.Hitting)
	pm := moments(in.Pitching)

	teams := in.Teams
	if len(teams) == 0 {
		teams = union(in.Hitting, in.Pitching)
	}

	rows := make([]Team, 0, len(teams))
	for _, name := range teams {
		hv, ok := in.Hitting[name]
		if !ok {
			hv = hm.Mean
		}
		pv, ok := in.Pitching[name]
		if !ok {
			pv = pm.Mean
		}
		hz := in.Hitter.Orient(hm.Z(hv))
		pz := in.Pitcher.Orient(pm.Z(pv))
		rows = append(rows, Team{
			Name:         name,
			Score:        hz + pz,
			HitterValue:  hv,
			PitcherValue: pv,
			HitterZ:      hz,
			PitcherZ:     pz,
		})
	}
	sortTeams(rows)

	var res Result
	for _, row := range rows {
		league, known := e.leagueOf(row.Name)
		if !known && e.logger != nil {
			e.logger.Warn(ctx, "team missing from league table; using fallback league",
				logger.String("team", row.Name), logger.String("league", string(league)))
		}
		if league == AL {
			row.Rank = len(res.AL) + 1
			res.AL = append(res.AL, row)
		} else {
			row.Rank = len(res.NL) + 1
			res.NL = append(res.NL, row)
		}
	}
	return res, nil
}

// MomentsOf returns the population mean and standard deviation of the values.
func MomentsOf(values map[string]float64) Moments {
	return moments(values)
}

// moments walks the values in team-name order so repeated calls sum in the
// same order and give bit-identical results.
func moments(values map[string]float64) Moments {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	xs := make([]float64, len(names))
	for i, name := range names {
		xs[i] = values[name]
	}

	if len(xs) == 0 {
		return Moments{}
	}
	if floats.Min(xs) == floats.Max(xs) {
		return Moments{Mean: xs[0]}
	}

	mean, variance := stat.PopMeanVariance(xs, nil)
	if variance < 0 || math.IsNaN(variance) {
		variance = 0
	}
	return Moments{Mean: mean, StdDev: math.Sqrt(variance)}
}

func union(a, b map[string]float64) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, m := range []map[string]float64{a, b} {
		for name := range m {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// scoreKey drops floating-point noise below the ninth decimal so that
// mathematically equal scores tie and fall through to the name order.
func scoreKey(score float64) float64 {
	return math.Round(score*1e9) / 1e9
}

// sortTeams orders by score DESC, then name ASC.
func sortTeams(rows []Team) {
	sort.Slice(rows, func(i, j int) bool {
		si, sj := scoreKey(rows[i].Score), scoreKey(rows[j].Score)
		if si != sj {
			return si > sj
		}
		return rows[i].Name < rows[j].Name
	})
}
