// Package service wires the roster cache, the simulation engine and the
// rating features into the operations the HTTP API and the CLI expose.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/mlbsim/internal/adapters/cache"
	"github.com/okian/mlbsim/internal/adapters/repository"
	"github.com/okian/mlbsim/internal/adapters/scheduler"
	"github.com/okian/mlbsim/internal/domain/matchup"
	"github.com/okian/mlbsim/internal/domain/montecarlo"
	"github.com/okian/mlbsim/internal/domain/projection"
	"github.com/okian/mlbsim/internal/domain/ranking"
	"github.com/okian/mlbsim/internal/domain/rating"
	"github.com/okian/mlbsim/internal/domain/simulation"
	"github.com/okian/mlbsim/pkg/logger"
	"github.com/okian/mlbsim/pkg/metrics"
)

// MatchupResult is a matchup for one season.
type MatchupResult struct {
	matchup.Result
	Season int `json:"season"`
}

// ProjectionResult is a season projection.
type ProjectionResult struct {
	projection.Result
	Season int `json:"season"`
}

// Service implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	// Core components
	loader    repository.SeasonLoader
	cache     *cache.Cache
	engine    *simulation.Engine
	analyzer  *matchup.Analyzer
	projector *projection.Projector
	warmer    *scheduler.Warmer

	// Configuration
	cacheTTL       time.Duration
	defaultSeason  int
	latestSeason   bool
	trials         int
	projectionSims int
	warmSchedule   string
	warmSeasons    []int
	seed           uint64
	seeded         bool

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cacheTTL:       cache.DefaultTTL,
		defaultSeason:  simulation.DefaultSeason,
		trials:         montecarlo.DefaultTrials,
		projectionSims: projection.DefaultSimulations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the components and starts the cache warmer when one is
// configured.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.loader == nil {
		return ErrNoLoader
	}

	s.logger.Info(ctx, "starting simulation service...")

	if s.latestSeason {
		season, err := s.loader.LatestSeason(ctx)
		if err != nil {
			return fmt.Errorf("resolve latest season: %w", err)
		}
		s.defaultSeason = season
		s.logger.Info(ctx, "default season resolved from loader", logger.Int("season", season))
	}

	s.cache = cache.New(s.loader,
		cache.WithTTL(s.cacheTTL),
		cache.WithLogger(s.logger.Named("cache")))

	s.engine = simulation.New(s.cache,
		simulation.WithLogger(s.logger.Named("simulation")),
		simulation.WithDefaultSeason(s.defaultSeason),
		simulation.WithRanker(ranking.New(ranking.WithLogger(s.logger.Named("ranking")))))

	samplerOpts := []montecarlo.Option{montecarlo.WithBounds(0, 100), montecarlo.WithDefaultTrials(s.trials)}
	projOpts := []projection.Option{projection.WithSimulations(s.projectionSims)}
	if s.seeded {
		samplerOpts = append(samplerOpts, montecarlo.WithSeed(s.seed))
		projOpts = append(projOpts, projection.WithSeed(s.seed))
	}
	s.analyzer = matchup.NewAnalyzer(
		matchup.WithSampler(montecarlo.New(samplerOpts...)),
		matchup.WithTrials(s.trials))
	s.projector = projection.New(projOpts...)

	if s.warmSchedule != "" && len(s.warmSeasons) > 0 {
		s.warmer = scheduler.NewWarmer(s.cache, s.warmSeasons,
			scheduler.WithSchedule(s.warmSchedule),
			scheduler.WithLogger(s.logger.Named("warmer")))
		if err := s.warmer.Start(ctx); err != nil {
			return err
		}
	}

	s.started = true
	s.logger.Info(ctx, "simulation service started",
		logger.Int("defaultSeason", s.defaultSeason),
		logger.Duration("cacheTTL", s.cacheTTL),
		logger.Int("trials", s.trials),
		logger.Int("projectionSimulations", s.projectionSims))
	return nil
}

// Stop shuts down the warmer.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping simulation service...")

	if s.warmer != nil {
		stopCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := s.warmer.Stop(stopCtx); err != nil {
			s.logger.Warn(ctx, "cache warmer did not stop cleanly", logger.Error(err))
		}
		cancel()
		s.warmer = nil
	}

	s.started = false
	s.logger.Info(ctx, "simulation service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// DefaultSeason returns the season used when a request omits it.
func (s *Service) DefaultSeason() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaultSeason
}

func (s *Service) season(season int) int {
	if season <= 0 {
		return s.defaultSeason
	}
	return season
}

// Rank ranks a season without trades.
func (s *Service) Rank(ctx context.Context, req simulation.Request) (simulation.Outcome, error) {
	if err := s.ready(); err != nil {
		return simulation.Outcome{}, err
	}
	out, err := s.engine.Rank(ctx, req)
	metrics.RecordRanking(status(err))
	if err != nil {
		s.logger.Debug(ctx, "ranking failed", logger.Error(err))
		return simulation.Outcome{}, err
	}
	return out, nil
}

// Simulate ranks a season after applying req.Transactions to a private copy.
func (s *Service) Simulate(ctx context.Context, req simulation.Request) (simulation.Outcome, error) {
	if err := s.ready(); err != nil {
		return simulation.Outcome{}, err
	}
	start := time.Now()
	out, err := s.engine.Run(ctx, req)
	metrics.RecordSimulation(status(err), float64(time.Since(start).Milliseconds()))
	if err != nil {
		s.logger.Debug(ctx, "simulation failed",
			logger.Int("transactions", len(req.Transactions)),
			logger.Error(err))
		return simulation.Outcome{}, err
	}
	metrics.RecordTransactionsApplied(len(out.Messages))
	return out, nil
}

// CacheInfo reports on the cache entry of season (the default when 0).
func (s *Service) CacheInfo(season int) (cache.Info, error) {
	if err := s.ready(); err != nil {
		return cache.Info{}, err
	}
	return s.cache.Info(s.season(season)), nil
}

// Matchup compares two teams.
func (s *Service) Matchup(ctx context.Context, teamA, teamB, method string, season int) (MatchupResult, error) {
	if err := s.ready(); err != nil {
		return MatchupResult{}, err
	}
	m, err := rating.ParseMethod(method)
	if err != nil {
		metrics.RecordMatchup(method, "error")
		return MatchupResult{}, err
	}
	season = s.season(season)
	state, err := s.cache.Get(ctx, season, false)
	if err != nil {
		metrics.RecordMatchup(string(m), "error")
		return MatchupResult{}, err
	}
	res, err := s.analyzer.Analyze(ctx, state, teamA, teamB, m)
	metrics.RecordMatchup(string(m), status(err))
	if err != nil {
		return MatchupResult{}, err
	}
	metrics.RecordMonteCarloTrials(res.Trials)
	return MatchupResult{Result: res, Season: season}, nil
}

// Project simulates the regular season. sims <= 0 uses the configured
// default.
func (s *Service) Project(ctx context.Context, method string, season, sims int) (ProjectionResult, error) {
	if err := s.ready(); err != nil {
		return ProjectionResult{}, err
	}
	m, err := rating.ParseMethod(method)
	if err != nil {
		metrics.RecordProjection(method, "error")
		return ProjectionResult{}, err
	}
	season = s.season(season)
	state, err := s.cache.Get(ctx, season, false)
	if err != nil {
		metrics.RecordProjection(string(m), "error")
		return ProjectionResult{}, err
	}
	res, err := s.projector.Project(ctx, state, m, sims)
	metrics.RecordProjection(string(m), status(err))
	if err != nil {
		return ProjectionResult{}, fmt.Errorf("project season %d: %w", season, err)
	}
	return ProjectionResult{Result: res, Season: season}, nil
}

// Invalidate drops the cached snapshot of season, or every season when
// season is 0. It is meant to be called after the upstream data changes.
func (s *Service) Invalidate(ctx context.Context, season int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if season <= 0 {
		s.cache.InvalidateAll(ctx)
		return nil
	}
	s.cache.Invalidate(ctx, season)
	return nil
}

// Warm force-loads seasons (the default season when empty) into the cache.
func (s *Service) Warm(ctx context.Context, seasons ...int) error {
	if err := s.ready(); err != nil {
		return err
	}
	if len(seasons) == 0 {
		seasons = []int{s.defaultSeason}
	}
	return scheduler.NewWarmer(s.cache, seasons, scheduler.WithLogger(s.logger.Named("warmer"))).Run(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":                s.started,
		"default_season":         s.defaultSeason,
		"cache_ttl_seconds":      int(s.cacheTTL / time.Second),
		"monte_carlo_trials":     s.trials,
		"projection_simulations": s.projectionSims,
		"warm_schedule":          s.warmSchedule,
		"warm_seasons":           s.warmSeasons,
	}
	if s.started {
		cached := s.cache.Seasons()
		stats["cached_seasons"] = cached
		players := 0
		for _, season := range cached {
			players += s.cache.Info(season).PlayerCount
		}
		stats["cached_players"] = players
	}
	return stats
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
