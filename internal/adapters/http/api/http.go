// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/mlbsim/internal/domain/metric"
	"github.com/okian/mlbsim/pkg/logger"
	"github.com/okian/mlbsim/pkg/metrics"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RankingDependencies
	SimulationDependencies
	CacheDependencies
	MatchupDependencies
	ProjectionDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	rankingHandler    *RankingHandler
	simulationHandler *SimulationHandler
	cacheHandler      *CacheHandler
	matchupHandler    *MatchupHandler
	projectionHandler *ProjectionHandler

	limiter *rateLimiter
	logger  logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(deps),
		rankingHandler:    NewRankingHandler(deps),
		simulationHandler: NewSimulationHandler(deps),
		cacheHandler:      NewCacheHandler(deps),
		matchupHandler:    NewMatchupHandler(deps),
		projectionHandler: NewProjectionHandler(deps),
		logger:            logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/api/ranking", s.wrap(s.rankingHandler.HandleRanking, "ranking"))
	mux.HandleFunc("/api/simulation/ranking", s.wrap(s.simulationHandler.HandleSimulation, "simulation"))
	mux.HandleFunc("/api/cache/status", s.wrap(s.cacheHandler.HandleStatus, "cache_status"))
	mux.HandleFunc("/api/matchup", s.wrap(s.matchupHandler.HandleMatchup, "matchup"))
	mux.HandleFunc("/api/projection", s.wrap(s.projectionHandler.HandleProjection, "projection"))
}

// wrap applies the business middleware chain: request id, metrics, rate limit.
func (s *Server) wrap(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	h := next
	if s.limiter != nil {
		h = RateLimitMiddleware(h, s.limiter, endpoint)
	}
	return RequestIDMiddleware(MetricsMiddleware(h, endpoint), s.logger)
}

type errorResponse struct {
	Code         string   `json:"code"`
	Message      string   `json:"message"`
	ValidMetrics []string `json:"valid_metrics,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	resp := errorResponse{Code: code, Message: msg}
	if err != nil {
		resp.Message = err.Error()
		var unknown *metric.UnknownMetricError
		if errors.As(err, &unknown) {
			resp.ValidMetrics = unknown.Valid
		}
	}
	writeJSON(w, status, resp)
}

// fail classifies err and writes the matching error response.
func fail(w http.ResponseWriter, endpoint string, err error) {
	status, code := classify(err)
	metrics.RecordErrorByComponent("api."+endpoint, code)
	writeError(w, status, code, err)
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
