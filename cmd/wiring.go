package main

import (
	"context"
	"fmt"

	"github.com/okian/mlbsim/internal/adapters/repository"
	service "github.com/okian/mlbsim/internal/app"
	"github.com/okian/mlbsim/internal/config"
	"github.com/okian/mlbsim/pkg/logger"
)

// buildLoader returns the configured season loader behind a circuit
// breaker, and a function releasing its resources.
func buildLoader(ctx context.Context, cfg *config.Config, log logger.Logger) (repository.SeasonLoader, func(), error) {
	var (
		next    repository.SeasonLoader
		cleanup = func() {}
	)
	switch cfg.DataSource {
	case config.DataSourcePostgres:
		db, err := repository.Open(ctx, cfg.DatabaseURL, repository.DefaultPool)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("database handle: %w", err)
		}
		cleanup = func() { _ = sqlDB.Close() }
		next = repository.NewGormLoader(db, repository.WithLogger(log.Named("repository")))
	case config.DataSourceFile:
		next = repository.NewFileLoader(cfg.RosterFile)
	default:
		return nil, nil, fmt.Errorf("%w: unknown data_source %q", config.ErrInvalidConfig, cfg.DataSource)
	}

	breaker := repository.NewBreakerLoader(next, repository.BreakerConfig{
		FailureThreshold: uint32(max(cfg.BreakerFailureThreshold, 0)),
		Timeout:          cfg.BreakerTimeout(),
	}, log.Named("breaker"))
	return breaker, cleanup, nil
}

// newService builds a service from cfg. The warmer is only scheduled for
// long-running processes.
func newService(cfg *config.Config, loader repository.SeasonLoader, log logger.Logger, warm bool) *service.Service {
	opts := []service.Option{
		service.WithLogger(log),
		service.WithLoader(loader),
		service.WithCacheTTL(cfg.CacheTTL()),
		service.WithDefaultSeason(cfg.DefaultSeason),
		service.WithTrials(cfg.MonteCarloTrials),
		service.WithProjectionSimulations(cfg.ProjectionSimulations),
	}
	if cfg.DefaultSeason == 0 {
		opts = append(opts, service.WithLatestSeason())
	}
	if warm && cfg.WarmSchedule != "" {
		opts = append(opts, service.WithWarmSchedule(cfg.WarmSchedule, cfg.WarmSeasons))
	}
	return service.New(opts...)
}

// startService wires a loader and a started service for one-shot commands.
func startService(ctx context.Context, cfg *config.Config) (*service.Service, func(), error) {
	log := logger.Get()
	loader, cleanup, err := buildLoader(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	svc := newService(cfg, loader, log, false)
	if err := svc.Start(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to start service: %w", err)
	}
	return svc, func() {
		svc.Stop()
		cleanup()
	}, nil
}
