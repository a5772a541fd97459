// Package cache keeps one read-only roster snapshot per season in memory.
package cache

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/okian/mlbsim/internal/domain/roster"
	"github.com/okian/mlbsim/pkg/logger"
	"github.com/okian/mlbsim/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a season stays cached unless configured otherwise.
const DefaultTTL = time.Hour

const keyPrefix = "mlb_players_base_state_"

// Loader reads one season's rosters from the upstream store.
type Loader interface {
	LoadSeason(ctx context.Context, season int) (roster.BaseState, error)
}

// Info describes the cache entry of one season.
type Info struct {
	Season       int    `json:"season"`
	Key          string `json:"cache_key"`
	IsCached     bool   `json:"is_cached"`
	TeamCount    int    `json:"cached_teams"`
	PlayerCount  int    `json:"cached_players"`
	TTL          int    `json:"cache_ttl"`
	TTLRemaining int    `json:"ttl_remaining"`
}

type entry struct {
	state   roster.BaseState
	players int
	expires time.Time
}

// Cache serves season snapshots. Stored snapshots are shared between
// callers and must never be mutated; clone before changing anything.
type Cache struct {
	mu      sync.RWMutex
	entries map[int]*entry
	// A load stores its result only if neither the season's generation nor
	// the epoch moved while it ran. Invalidate bumps one season, InvalidateAll
	// bumps the epoch.
	generations map[int]uint64
	epoch       uint64

	group  singleflight.Group
	loader Loader
	ttl    time.Duration
	now    func() time.Time
	logger logger.Logger
}

// New creates a cache in front of loader.
func New(loader Loader, opts ...Option) *Cache {
	c := &Cache{
		entries:     make(map[int]*entry),
		generations: make(map[int]uint64),
		loader:      loader,
		ttl:         DefaultTTL,
		now:         time.Now,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the cache key of a season.
func Key(season int) string {
	return keyPrefix + strconv.Itoa(season)
}

// TTL returns the configured time to live.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the snapshot of season, loading it on a miss or when force is
// set. Concurrent loads of one season are coalesced into a single loader
// call. A caller whose ctx ends stops waiting but does not cancel the load
// other callers share.
func (c *Cache) Get(ctx context.Context, season int, force bool) (roster.BaseState, error) {
	if !force {
		if state, ok := c.lookup(season); ok {
			metrics.RecordCacheHit()
			return state, nil
		}
	}
	metrics.RecordCacheMiss()

	ch := c.group.DoChan(Key(season), func() (any, error) {
		return c.load(context.WithoutCancel(ctx), season)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(roster.BaseState), nil
	}
}

func (c *Cache) lookup(season int) (roster.BaseState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[season]
	if !ok || !c.now().Before(e.expires) {
		return nil, false
	}
	return e.state, true
}

func (c *Cache) load(ctx context.Context, season int) (roster.BaseState, error) {
	c.mu.RLock()
	gen, epoch := c.generations[season], c.epoch
	c.mu.RUnlock()

	start := time.Now()
	state, err := c.loader.LoadSeason(ctx, season)
	latency := float64(time.Since(start).Milliseconds())
	if err == nil && len(state) == 0 {
		err = fmt.Errorf("season %d has no teams", season)
	}
	if err != nil {
		metrics.RecordCacheLoad("error", latency)
		metrics.RecordErrorByComponent("cache", "data_unavailable")
		c.logger.Error(ctx, "season load failed", logger.Int("season", season), logger.Error(err))
		return nil, fmt.Errorf("%w: season %d: %w", ErrDataUnavailable, season, err)
	}
	metrics.RecordCacheLoad("success", latency)

	e := &entry{state: state, players: state.PlayerCount(), expires: c.now().Add(c.ttl)}
	c.mu.Lock()
	stored := c.generations[season] == gen && c.epoch == epoch
	if stored {
		c.entries[season] = e
	}
	c.mu.Unlock()
	c.updateSize()

	c.logger.Info(ctx, "season loaded",
		logger.Int("season", season),
		logger.Int("teams", len(state)),
		logger.Int("players", e.players),
		logger.Bool("stored", stored),
		logger.Duration("took", time.Since(start)))
	return state, nil
}

// Invalidate drops the entry of one season.
func (c *Cache) Invalidate(ctx context.Context, season int) {
	c.mu.Lock()
	delete(c.entries, season)
	c.generations[season]++
	c.mu.Unlock()
	c.group.Forget(Key(season))
	metrics.RecordCacheInvalidation()
	c.updateSize()
	c.logger.Info(ctx, "season invalidated", logger.Int("season", season))
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	seasons := make([]int, 0, len(c.entries))
	for s := range c.entries {
		seasons = append(seasons, s)
	}
	c.entries = make(map[int]*entry)
	c.epoch++
	c.mu.Unlock()
	for _, s := range seasons {
		c.group.Forget(Key(s))
	}
	metrics.RecordCacheInvalidation()
	c.updateSize()
	c.logger.Info(ctx, "cache cleared", logger.Int("seasons", len(seasons)))
}

// Info reports on the entry of season without loading it.
func (c *Cache) Info(season int) Info {
	info := Info{Season: season, Key: Key(season), TTL: int(c.ttl / time.Second)}

	c.mu.RLock()
	e, ok := c.entries[season]
	c.mu.RUnlock()
	if !ok {
		return info
	}
	remaining := e.expires.Sub(c.now())
	if remaining <= 0 {
		return info
	}
	info.IsCached = true
	info.TeamCount = len(e.state)
	info.PlayerCount = e.players
	info.TTLRemaining = int(math.Ceil(remaining.Seconds()))
	return info
}

// Seasons returns the seasons with a live entry, ascending.
func (c *Cache) Seasons() []int {
	now := c.now()
	c.mu.RLock()
	out := make([]int, 0, len(c.entries))
	for s, e := range c.entries {
		if now.Before(e.expires) {
			out = append(out, s)
		}
	}
	c.mu.RUnlock()
	sort.Ints(out)
	return out
}

func (c *Cache) updateSize() {
	c.mu.RLock()
	entries, players := len(c.entries), 0
	for _, e := range c.entries {
		players += e.players
	}
	c.mu.RUnlock()
	metrics.UpdateCacheSize(entries, players)
}
