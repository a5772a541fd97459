// Package simulation ranks teams against a season snapshot, optionally after
// applying hypothetical trades to a private copy of it.
package simulation

import (
	"context"
	"fmt"

	"github.com/okian/mlbsim/internal/domain/aggregate"
	"github.com/okian/mlbsim/internal/domain/metric"
	"github.com/okian/mlbsim/internal/domain/ranking"
	"github.com/okian/mlbsim/internal/domain/roster"
	"github.com/okian/mlbsim/pkg/logger"
)

// DefaultSeason is used when neither the request nor the engine names one.
const DefaultSeason = 2025

// SnapshotSource serves shared, read-only season snapshots.
type SnapshotSource interface {
	Get(ctx context.Context, season int, force bool) (roster.BaseState, error)
}

// Request describes one ranking, with or without trades.
type Request struct {
	HitterMetric  string
	PitcherMetric string
	Transactions  []Transaction
	// Season defaults to the engine's default season when 0.
	Season  int
	Details bool
}

// Outcome is the ranking plus the log of applied trades.
type Outcome struct {
	Ranking  ranking.Result
	Hitter   metric.Spec
	Pitcher  metric.Spec
	Season   int
	Messages []string
	Details  bool
}

// Engine runs rankings. It holds no per-request state.
type Engine struct {
	source        SnapshotSource
	ranker        *ranking.Engine
	logger        logger.Logger
	defaultSeason int
}

// New creates an engine reading snapshots from source.
func New(source SnapshotSource, opts ...Option) *Engine {
	e := &Engine{
		source:        source,
		defaultSeason: DefaultSeason,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.ranker == nil {
		var rankOpts []ranking.Option
		if e.logger != nil {
			rankOpts = append(rankOpts, ranking.WithLogger(e.logger))
		}
		e.ranker = ranking.New(rankOpts...)
	}
	return e
}

// Rank ranks the season as stored. Any transactions on req are ignored.
func (e *Engine) Rank(ctx context.Context, req Request) (Outcome, error) {
	req.Transactions = nil
	return e.run(ctx, req)
}

// Run applies req.Transactions to a private copy of the season and ranks
// the result. The list must not be empty. On any error nothing is returned
// and the shared snapshot is left untouched.
func (e *Engine) Run(ctx context.Context, req Request) (Outcome, error) {
	if err := ValidateAll(req.Transactions); err != nil {
		return Outcome{}, err
	}
	return e.run(ctx, req)
}

func (e *Engine) run(ctx context.Context, req Request) (Outcome, error) {
	hitter, err := metric.ValidateHitter(req.HitterMetric)
	if err != nil {
		return Outcome{}, err
	}
	pitcher, err := metric.ValidatePitcher(req.PitcherMetric)
	if err != nil {
		return Outcome{}, err
	}

	season := req.Season
	if season <= 0 {
		season = e.defaultSeason
	}

	base, err := e.source.Get(ctx, season, false)
	if err != nil {
		return Outcome{}, err
	}

	state := base
	messages := []string{}
	if len(req.Transactions) > 0 {
		state = base.Clone()
		messages, err = ApplyTransactions(state, req.Transactions)
		if err != nil {
			return Outcome{}, err
		}
		if e.logger != nil {
			e.logger.Debug(ctx, "applied transactions",
				logger.Int("season", season),
				logger.Int("count", len(messages)))
		}
	}

	res, err := e.ranker.Rank(ctx, ranking.Input{
		Hitting:  aggregate.Hitters(state, hitter),
		Pitching: aggregate.Pitchers(state, pitcher),
		Hitter:   hitter,
		Pitcher:  pitcher,
		Teams:    state.Teams(),
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("season %d %s/%s: %w", season, hitter.Name, pitcher.Name, err)
	}

	return Outcome{
		Ranking:  res,
		Hitter:   hitter,
		Pitcher:  pitcher,
		Season:   season,
		Messages: messages,
		Details:  req.Details,
	}, nil
}
