package repository

import (
	"context"
	"time"

	"github.com/okian/mlbsim/internal/domain/roster"
	"github.com/okian/mlbsim/pkg/logger"
	"github.com/okian/mlbsim/pkg/metrics"
	"github.com/sony/gobreaker"
)

// BreakerConfig tunes the circuit breaker in front of a loader.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the
	// breaker.
	FailureThreshold uint32
	// Timeout is how long the breaker stays open before letting a probe
	// request through.
	Timeout time.Duration
}

// BreakerLoader stops calling a failing upstream for a while instead of
// queueing more work on it.
type BreakerLoader struct {
	next SeasonLoader
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerLoader wraps next.
func NewBreakerLoader(next SeasonLoader, cfg BreakerConfig, log logger.Logger) *BreakerLoader {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if log == nil {
		log = logger.Nop()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "season-loader",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			metrics.UpdateLoaderBreakerState(int(to))
			log.Warn(context.Background(), "loader circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		},
	})
	metrics.UpdateLoaderBreakerState(int(gobreaker.StateClosed))
	return &BreakerLoader{next: next, cb: cb}
}

// LoadSeason implements SeasonLoader. While the breaker is open it fails
// immediately with gobreaker.ErrOpenState.
func (b *BreakerLoader) LoadSeason(ctx context.Context, season int) (roster.BaseState, error) {
	v, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.LoadSeason(ctx, season)
	})
	if err != nil {
		return nil, err
	}
	return v.(roster.BaseState), nil
}

// LatestSeason implements SeasonLoader.
func (b *BreakerLoader) LatestSeason(ctx context.Context) (int, error) {
	v, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.LatestSeason(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// State returns the breaker state.
func (b *BreakerLoader) State() gobreaker.State {
	return b.cb.State()
}
