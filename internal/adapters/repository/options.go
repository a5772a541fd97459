package repository

import (
	"time"

	"github.com/okian/mlbsim/pkg/logger"
)

// Option applies a configuration option to the GormLoader.
type Option func(*GormLoader)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(g *GormLoader) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithQueryTimeout bounds each season load.
func WithQueryTimeout(d time.Duration) Option {
	return func(g *GormLoader) {
		if d > 0 {
			g.queryTimeout = d
		}
	}
}

// PoolConfig sizes the database connection pool.
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPool is used by Open.
var DefaultPool = PoolConfig{
	MaxIdleConns:    5,
	MaxOpenConns:    20,
	ConnMaxLifetime: time.Hour,
}
