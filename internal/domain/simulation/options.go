package simulation

import (
	"github.com/okian/mlbsim/internal/domain/ranking"
	"github.com/okian/mlbsim/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRanker replaces the ranking engine.
func WithRanker(r *ranking.Engine) Option {
	return func(e *Engine) {
		if r != nil {
			e.ranker = r
		}
	}
}

// WithDefaultSeason sets the season used when a request has none.
func WithDefaultSeason(season int) Option {
	return func(e *Engine) {
		if season > 0 {
			e.defaultSeason = season
		}
	}
}
