package ranking

import "github.com/okian/mlbsim/pkg/logger"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report teams missing from the league table.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithLeagueLookup replaces the league table lookup.
func WithLeagueLookup(lookup func(team string) (League, bool)) Option {
	return func(e *Engine) {
		if lookup != nil {
			e.leagueOf = lookup
		}
	}
}
