// Package matchup compares two clubs head to head.
package matchup

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/mlbsim/internal/domain/montecarlo"
	"github.com/okian/mlbsim/internal/domain/ranking"
	"github.com/okian/mlbsim/internal/domain/rating"
	"github.com/okian/mlbsim/internal/domain/roster"
)

// Player is the roster entry shown with a matchup.
type Player struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Position     string              `json:"position"`
	PositionType roster.PositionType `json:"position_type"`
}

// Result of one matchup. Scores are on a 0-100 scale and probabilities are
// percentages; all are rounded to 2 decimals.
type Result struct {
	TeamA        []Player      `json:"team_A"`
	TeamB        []Player      `json:"team_B"`
	TeamAName    string        `json:"team_A_name"`
	TeamBName    string        `json:"team_B_name"`
	TeamAScore   float64       `json:"team_A_score"`
	TeamBScore   float64       `json:"team_B_score"`
	TeamAWinProb float64       `json:"team_A_win_prob"`
	TeamBWinProb float64       `json:"team_B_win_prob"`
	Method       rating.Method `json:"method"`
	Trials       int           `json:"trials"`
}

// Analyzer runs matchups with a bounded Monte Carlo sampler.
type Analyzer struct {
	sampler *montecarlo.Sampler
	trials  int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSampler replaces the sampler. It should clip draws to [0, 100].
func WithSampler(s *montecarlo.Sampler) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.sampler = s
		}
	}
}

// WithTrials sets the number of Monte Carlo trials per matchup.
func WithTrials(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.trials = n
		}
	}
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{trials: montecarlo.DefaultTrials}
	for _, opt := range opts {
		opt(a)
	}
	if a.sampler == nil {
		a.sampler = montecarlo.New(montecarlo.WithBounds(0, 100))
	}
	return a
}

// Analyze compares teamA with teamB using method. Team names are matched
// exactly first, then case-insensitively.
func (a *Analyzer) Analyze(_ context.Context, state roster.BaseState, teamA, teamB string, method rating.Method) (Result, error) {
	ta, err := find(state, teamA)
	if err != nil {
		return Result{}, err
	}
	tb, err := find(state, teamB)
	if err != nil {
		return Result{}, err
	}
	if ta.Name == tb.Name {
		return Result{}, fmt.Errorf("%w: %s", ErrSameTeam, ta.Name)
	}
	for _, t := range []*roster.TeamRoster{ta, tb} {
		if !rating.HasRating(t.Record, method) {
			return Result{}, fmt.Errorf("%w: %s has no %s data", ErrMissingRating, t.Name, method)
		}
	}

	meanA, sdA := a.distribution(ta.Record, method)
	meanB, sdB := a.distribution(tb.Record, method)
	est, err := a.sampler.EstimateFromSpread(meanA, sdA, meanB, sdB, a.trials)
	if err != nil {
		return Result{}, fmt.Errorf("%s vs %s: %w", ta.Name, tb.Name, err)
	}

	probA := ranking.Round(est.ProbA, 2)
	return Result{
		TeamA:        players(ta),
		TeamB:        players(tb),
		TeamAName:    ta.Name,
		TeamBName:    tb.Name,
		TeamAScore:   ranking.Round(est.MeanA, 2),
		TeamBScore:   ranking.Round(est.MeanB, 2),
		TeamAWinProb: probA,
		TeamBWinProb: ranking.Round(100-probA, 2),
		Method:       method,
		Trials:       est.Trials,
	}, nil
}

func (a *Analyzer) distribution(rec roster.SeasonRecord, method rating.Method) (mean, sd float64) {
	if method == rating.Elo {
		r := rating.RegressElo(rec.Elo, rating.EloRegressionWeight)
		return rating.EloToScore(r), rating.EloSpread(r)
	}
	wr := rating.ProjectWinRate(float64(rec.RunsScored), float64(rec.RunsAllowed), rating.ProjectionWeight)
	return wr * 100, a.sampler.Spread(rec.GamesPlayed)
}

func find(state roster.BaseState, name string) (*roster.TeamRoster, error) {
	name = strings.TrimSpace(name)
	if t, ok := state[name]; ok {
		return t, nil
	}
	for key, t := range state {
		if strings.EqualFold(key, name) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrTeamNotFound, name)
}

func players(t *roster.TeamRoster) []Player {
	listing := t.Listing()
	out := make([]Player, len(listing))
	for i, p := range listing {
		out[i] = Player{ID: p.ID, Name: p.Name, Position: p.Position, PositionType: p.PositionType}
	}
	return out
}
