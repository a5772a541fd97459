// Package metrics provides Prometheus metrics for the what-if simulation service.
package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	defaultRefreshInterval = 10 * time.Second
)

var defaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000} //nolint:gochecknoglobals // read-only

// Manager owns every Prometheus collector the service exports.
type Manager struct {
	namespace       string
	subsystem       string
	latencyBuckets  []float64
	constLabels     map[string]string
	registry        prometheus.Registerer
	enabled         atomic.Bool
	refreshInterval atomic.Int64

	// Simulation pipeline
	rankingsTotal       *prometheus.CounterVec
	simulationsTotal    *prometheus.CounterVec
	transactionsApplied prometheus.Counter
	simulationLatency   prometheus.Histogram
	matchupsTotal       *prometheus.CounterVec
	projectionsTotal    *prometheus.CounterVec
	monteCarloTrials    prometheus.Counter

	// Base state cache
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	cacheLoads         *prometheus.CounterVec
	cacheLoadLatency   prometheus.Histogram
	cacheEntries       prometheus.Gauge
	cachePlayers       prometheus.Gauge
	cacheInvalidations prometheus.Counter
	cacheWarmRuns      *prometheus.CounterVec

	// Upstream loader
	loaderBreakerState prometheus.Gauge
	loaderQueryLatency prometheus.Histogram

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	rateLimited         *prometheus.CounterVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager. Collectors are registered on the
// configured registry, the default Prometheus registerer unless overridden.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "mlbsim",
		subsystem:      "whatif",
		latencyBuckets: defaultLatencyBuckets,
		registry:       prometheus.DefaultRegisterer,
	}
	m.enabled.Store(true)
	m.refreshInterval.Store(int64(defaultRefreshInterval))
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// Enabled reports whether the recorders are switched on.
func (m *Manager) Enabled() bool { return m.enabled.Load() }

// RefreshInterval is how often background updaters should refresh gauges.
func (m *Manager) RefreshInterval() time.Duration { return time.Duration(m.refreshInterval.Load()) }

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem,
		Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.rankingsTotal = auto.NewCounterVec(m.counterOpts("rankings_total", "Rankings computed by outcome"), []string{"status"})
	m.simulationsTotal = auto.NewCounterVec(m.counterOpts("simulations_total", "What-if simulations by outcome"), []string{"status"})
	m.transactionsApplied = auto.NewCounter(m.counterOpts("transactions_applied_total", "Trades applied to request-local roster clones"))
	m.simulationLatency = auto.NewHistogram(m.histogramOpts("simulation_latency_milliseconds", "End-to-end simulation latency in milliseconds", m.latencyBuckets))
	m.matchupsTotal = auto.NewCounterVec(m.counterOpts("matchups_total", "Matchup analyses by rating method and outcome"), []string{"method", "status"})
	m.projectionsTotal = auto.NewCounterVec(m.counterOpts("projections_total", "Season projections by rating method and outcome"), []string{"method", "status"})
	m.monteCarloTrials = auto.NewCounter(m.counterOpts("monte_carlo_trials_total", "Monte Carlo trials drawn"))

	m.cacheHits = auto.NewCounter(m.counterOpts("cache_hits_total", "Base state cache hits"))
	m.cacheMisses = auto.NewCounter(m.counterOpts("cache_misses_total", "Base state cache misses (including forced refreshes)"))
	m.cacheLoads = auto.NewCounterVec(m.counterOpts("cache_loads_total", "Upstream roster loads by result"), []string{"result"})
	m.cacheLoadLatency = auto.NewHistogram(m.histogramOpts("cache_load_latency_milliseconds", "Upstream roster load latency in milliseconds",
		[]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}))
	m.cacheEntries = auto.NewGauge(m.gaugeOpts("cache_entries", "Seasons currently held in the base state cache"))
	m.cachePlayers = auto.NewGauge(m.gaugeOpts("cache_players", "Players held across all cached seasons"))
	m.cacheInvalidations = auto.NewCounter(m.counterOpts("cache_invalidations_total", "Base state cache invalidations"))
	m.cacheWarmRuns = auto.NewCounterVec(m.counterOpts("cache_warm_runs_total", "Scheduled cache warm runs by result"), []string{"result"})

	m.loaderBreakerState = auto.NewGauge(m.gaugeOpts("loader_breaker_state", "Roster loader circuit breaker state (0 closed, 1 half-open, 2 open)"))
	m.loaderQueryLatency = auto.NewHistogram(m.histogramOpts("loader_query_latency_milliseconds", "Roster store query latency in milliseconds", m.latencyBuckets))

	m.httpRequests = auto.NewCounterVec(m.counterOpts("http_requests_total", "HTTP requests by endpoint and method"), []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"})
	m.rateLimited = auto.NewCounterVec(m.counterOpts("http_rate_limited_total", "Requests rejected by the rate limiter"), []string{"endpoint"})

	m.errorRateByComponent = auto.NewCounterVec(m.counterOpts("errors_by_component_total", "Errors by component"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counterOpts("errors_by_type_total", "Errors by type"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts("errors_by_endpoint_total", "Errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogramOpts("error_latency_milliseconds", "Latency of operations that resulted in errors", m.latencyBuckets),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Simulation pipeline.

// RecordRanking counts a ranking computation with its outcome ("success" or an error kind).
func RecordRanking(status string) {
	if globalManager.enabled.Load() {
		globalManager.rankingsTotal.WithLabelValues(status).Inc()
	}
}

// RecordSimulation counts a simulation run and observes its latency.
func RecordSimulation(status string, latencyMs float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.simulationsTotal.WithLabelValues(status).Inc()
	globalManager.simulationLatency.Observe(latencyMs)
}

// RecordTransactionsApplied adds n applied trades.
func RecordTransactionsApplied(n int) {
	if globalManager.enabled.Load() && n > 0 {
		globalManager.transactionsApplied.Add(float64(n))
	}
}

// RecordMatchup counts a matchup analysis.
func RecordMatchup(method, status string) {
	if globalManager.enabled.Load() {
		globalManager.matchupsTotal.WithLabelValues(method, status).Inc()
	}
}

// RecordProjection counts a season projection.
func RecordProjection(method, status string) {
	if globalManager.enabled.Load() {
		globalManager.projectionsTotal.WithLabelValues(method, status).Inc()
	}
}

// RecordMonteCarloTrials adds n drawn trials.
func RecordMonteCarloTrials(n int) {
	if globalManager.enabled.Load() && n > 0 {
		globalManager.monteCarloTrials.Add(float64(n))
	}
}

// Base state cache.

// RecordCacheHit increments the cache hit counter.
func RecordCacheHit() {
	if globalManager.enabled.Load() {
		globalManager.cacheHits.Inc()
	}
}

// RecordCacheMiss increments the cache miss counter.
func RecordCacheMiss() {
	if globalManager.enabled.Load() {
		globalManager.cacheMisses.Inc()
	}
}

// RecordCacheLoad counts an upstream load and observes its latency.
func RecordCacheLoad(result string, latencyMs float64) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.cacheLoads.WithLabelValues(result).Inc()
	globalManager.cacheLoadLatency.Observe(latencyMs)
}

// UpdateCacheSize sets the number of cached seasons and players.
func UpdateCacheSize(entries, players int) {
	if !globalManager.enabled.Load() {
		return
	}
	globalManager.cacheEntries.Set(float64(entries))
	globalManager.cachePlayers.Set(float64(players))
}

// RecordCacheInvalidation increments the invalidation counter.
func RecordCacheInvalidation() {
	if globalManager.enabled.Load() {
		globalManager.cacheInvalidations.Inc()
	}
}

// RecordCacheWarmRun counts a scheduled warm run.
func RecordCacheWarmRun(result string) {
	if globalManager.enabled.Load() {
		globalManager.cacheWarmRuns.WithLabelValues(result).Inc()
	}
}

// Upstream loader.

// UpdateLoaderBreakerState records the breaker state as 0 closed, 1 half-open, 2 open.
func UpdateLoaderBreakerState(state int) {
	if globalManager.enabled.Load() {
		globalManager.loaderBreakerState.Set(float64(state))
	}
}

// RecordLoaderQueryLatency observes a roster store query.
func RecordLoaderQueryLatency(latencyMs float64) {
	if globalManager.enabled.Load() {
		globalManager.loaderQueryLatency.Observe(latencyMs)
	}
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled.Load() {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if globalManager.enabled.Load() {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
	}
}

// RecordRateLimited counts a request rejected by the limiter.
func RecordRateLimited(endpoint string) {
	if globalManager.enabled.Load() {
		globalManager.rateLimited.WithLabelValues(endpoint).Inc()
	}
}

// Errors.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if globalManager.enabled.Load() {
		globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	if globalManager.enabled.Load() {
		globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
	}
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled.Load() {
		globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	if globalManager.enabled.Load() {
		globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
	}
}

// System.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled.Load() {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled.Load() {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	if globalManager.enabled.Load() {
		globalManager.systemGCPauseTime.Observe(pauseMs)
	}
}

// SetEnabled switches the global recorders on or off.
func SetEnabled(enabled bool) {
	globalManager.enabled.Store(enabled)
}

// SetRefreshInterval changes how often the system gauges are sampled.
// Non-positive values are ignored.
func SetRefreshInterval(d time.Duration) {
	if d > 0 {
		globalManager.refreshInterval.Store(int64(d))
	}
}

// RefreshInterval returns the global gauge sampling interval.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
