package service

import (
	"time"

	"github.com/okian/mlbsim/internal/adapters/repository"
	"github.com/okian/mlbsim/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLoader sets the upstream season loader.
func WithLoader(l repository.SeasonLoader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// WithCacheTTL sets how long a loaded season stays cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithDefaultSeason sets the season used when a request omits it.
func WithDefaultSeason(season int) Option {
	return func(s *Service) {
		if season > 0 {
			s.defaultSeason = season
			s.latestSeason = false
		}
	}
}

// WithLatestSeason makes Start ask the loader for its most recent season
// and use it as the default.
func WithLatestSeason() Option {
	return func(s *Service) {
		s.latestSeason = true
	}
}

// WithTrials sets the Monte Carlo trial count per matchup.
func WithTrials(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.trials = n
		}
	}
}

// WithProjectionSimulations sets the default number of simulated seasons.
func WithProjectionSimulations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.projectionSims = n
		}
	}
}

// WithWarmSchedule enables the cache warmer for seasons on the cron spec.
func WithWarmSchedule(spec string, seasons []int) Option {
	return func(s *Service) {
		s.warmSchedule = spec
		s.warmSeasons = append([]int(nil), seasons...)
	}
}

// WithSeed makes matchups and projections reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		s.seed = seed
		s.seeded = true
	}
}
