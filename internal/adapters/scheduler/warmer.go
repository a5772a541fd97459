// Package scheduler refreshes cached seasons on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/mlbsim/internal/domain/roster"
	"github.com/okian/mlbsim/pkg/logger"
	"github.com/okian/mlbsim/pkg/metrics"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// DefaultSchedule refreshes just before the default one-hour TTL runs out.
const DefaultSchedule = "@every 55m"

// Refresher reloads a season. The cache's Get with force=true fits.
type Refresher interface {
	Get(ctx context.Context, season int, force bool) (roster.BaseState, error)
}

// Warmer force-refreshes a fixed set of seasons on a schedule so that
// requests rarely pay for a load.
type Warmer struct {
	target      Refresher
	seasons     []int
	schedule    string
	concurrency int
	logger      logger.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	cancel  context.CancelFunc
	running bool
}

// Option configures a Warmer.
type Option func(*Warmer)

// WithSchedule sets the cron spec (standard five fields or a descriptor).
func WithSchedule(spec string) Option {
	return func(w *Warmer) {
		if spec != "" {
			w.schedule = spec
		}
	}
}

// WithConcurrency bounds parallel season loads.
func WithConcurrency(n int) Option {
	return func(w *Warmer) {
		if n > 0 {
			w.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Warmer) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWarmer creates a warmer for seasons.
func NewWarmer(target Refresher, seasons []int, opts ...Option) *Warmer {
	w := &Warmer{
		target:      target,
		seasons:     append([]int(nil), seasons...),
		schedule:    DefaultSchedule,
		concurrency: 2,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start registers the job and starts the scheduler. It does not run the job
// immediately; call Run for that.
func (w *Warmer) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	c := cron.New()
	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if _, err := c.AddFunc(w.schedule, func() { _ = w.Run(jobCtx) }); err != nil {
		cancel()
		return fmt.Errorf("invalid warm schedule %q: %w", w.schedule, err)
	}
	c.Start()

	w.cron, w.cancel, w.running = c, cancel, true
	w.logger.Info(ctx, "cache warmer started",
		logger.String("schedule", w.schedule),
		logger.Any("seasons", w.seasons))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish or ctx to
// end.
func (w *Warmer) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	c, cancel := w.cron, w.cancel
	w.running = false
	w.mu.Unlock()

	done := c.Stop()
	defer cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run refreshes every season once. A failed season is logged and counted;
// its previous entry stays valid until its TTL.
func (w *Warmer) Run(ctx context.Context) error {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	var mu sync.Mutex
	var failed []int
	for _, season := range w.seasons {
		g.Go(func() error {
			if _, err := w.target.Get(gctx, season, true); err != nil {
				w.logger.Warn(gctx, "season warm-up failed", logger.Int("season", season), logger.Error(err))
				mu.Lock()
				failed = append(failed, season)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 0 {
		metrics.RecordCacheWarmRun("error")
		return fmt.Errorf("warm-up failed for seasons %v", failed)
	}
	metrics.RecordCacheWarmRun("success")
	w.logger.Debug(ctx, "cache warm-up complete",
		logger.Int("seasons", len(w.seasons)),
		logger.Duration("took", time.Since(start)))
	return nil
}
