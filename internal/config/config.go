// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - External errors are wrapped with this package's sentinel kinds.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Data source names accepted by DataSource.
const (
	DataSourcePostgres = "postgres"
	DataSourceFile     = "file"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DefaultSeason is used when a request omits the season. Zero means the
	// latest season the data source holds.
	DefaultSeason int `koanf:"default_season"`

	// CacheTTLSeconds bounds how long a loaded base state is served.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// MonteCarloTrials is the fixed trial count for matchup estimates.
	MonteCarloTrials int `koanf:"monte_carlo_trials"`

	// ProjectionSimulations is the default number of simulated seasons.
	ProjectionSimulations int `koanf:"projection_simulations"`

	// DataSource selects the roster loader: "postgres" or "file".
	DataSource string `koanf:"data_source"`

	// DatabaseURL is the Postgres DSN used when DataSource is "postgres".
	DatabaseURL string `koanf:"database_url"`

	// RosterFile is the YAML fixture used when DataSource is "file".
	RosterFile string `koanf:"roster_file"`

	// WarmSchedule is a cron spec for background cache refreshes. Empty disables warming.
	WarmSchedule string `koanf:"warm_schedule"`

	// WarmSeasons lists the seasons the warmer refreshes.
	WarmSeasons []int `koanf:"warm_seasons"`

	// RateLimitRPS and RateLimitBurst shape the per-process API limiter. Zero RPS disables it.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// BreakerFailureThreshold trips the loader breaker after this many consecutive failures.
	BreakerFailureThreshold int `koanf:"breaker_failure_threshold"`

	// BreakerTimeoutSeconds is how long the breaker stays open before probing.
	BreakerTimeoutSeconds int `koanf:"breaker_timeout_seconds"`

	// MetricsEnabled switches the Prometheus recorders on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsRefreshSeconds is how often the server samples runtime gauges.
	MetricsRefreshSeconds int `koanf:"metrics_refresh_seconds"`
}

// New creates a Config populated with defaults. Context is accepted first to
// follow the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:                "info",
		Addr:                    ":9080",
		DefaultSeason:           2025,
		CacheTTLSeconds:         3600,
		MonteCarloTrials:        10_000,
		ProjectionSimulations:   1_000,
		DataSource:              DataSourceFile,
		RosterFile:              "rosters.yaml",
		WarmSchedule:            "@every 55m",
		WarmSeasons:             []int{2025},
		RateLimitRPS:            50,
		RateLimitBurst:          100,
		BreakerFailureThreshold: 3,
		BreakerTimeoutSeconds:   30,
		MetricsEnabled:          true,
		MetricsRefreshSeconds:   10,
	}
}

// CacheTTL returns the cache time-to-live as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// BreakerTimeout returns the open-state timeout as a duration.
func (c *Config) BreakerTimeout() time.Duration {
	return time.Duration(c.BreakerTimeoutSeconds) * time.Second
}

// MetricsRefresh returns the runtime gauge sampling interval.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshSeconds) * time.Second
}

// Validate checks the invariants the rest of the service relies on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DefaultSeason < 0:
		return fmt.Errorf("%w: default_season must not be negative", ErrInvalidConfig)
	case c.CacheTTLSeconds <= 0:
		return fmt.Errorf("%w: cache_ttl_seconds must be positive", ErrInvalidConfig)
	case c.MonteCarloTrials <= 0:
		return fmt.Errorf("%w: monte_carlo_trials must be positive", ErrInvalidConfig)
	case c.ProjectionSimulations <= 0:
		return fmt.Errorf("%w: projection_simulations must be positive", ErrInvalidConfig)
	case c.RateLimitRPS < 0:
		return fmt.Errorf("%w: rate_limit_rps must not be negative", ErrInvalidConfig)
	case c.MetricsRefreshSeconds <= 0:
		return fmt.Errorf("%w: metrics_refresh_seconds must be positive", ErrInvalidConfig)
	}

	switch c.DataSource {
	case DataSourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: database_url is required for data_source %q", ErrInvalidConfig, c.DataSource)
		}
	case DataSourceFile:
		if c.RosterFile == "" {
			return fmt.Errorf("%w: roster_file is required for data_source %q", ErrInvalidConfig, c.DataSource)
		}
	default:
		return fmt.Errorf("%w: unknown data_source %q", ErrInvalidConfig, c.DataSource)
	}
	return nil
}
