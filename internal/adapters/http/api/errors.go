package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/mlbsim/internal/adapters/cache"
	service "github.com/okian/mlbsim/internal/app"
	"github.com/okian/mlbsim/internal/domain/matchup"
	"github.com/okian/mlbsim/internal/domain/metric"
	"github.com/okian/mlbsim/internal/domain/projection"
	"github.com/okian/mlbsim/internal/domain/ranking"
	"github.com/okian/mlbsim/internal/domain/rating"
	"github.com/okian/mlbsim/internal/domain/simulation"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Wrap prefixes err with the operation name.
func Wrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// WrapKind tags err with a kind so that errors.Is matches both.
func WrapKind(op string, kind, err error) error {
	return fmt.Errorf("%s: %w: %w", op, kind, err)
}

// NewKind returns an error of the given kind without further detail.
func NewKind(op string, kind error) error {
	return fmt.Errorf("%s: %w", op, kind)
}

// classify maps an error to its HTTP status and response code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, metric.ErrUnknownMetric):
		return http.StatusBadRequest, "unknown_metric"
	case errors.Is(err, simulation.ErrMissingField):
		return http.StatusBadRequest, "missing_field"
	case errors.Is(err, simulation.ErrTeamNotFound):
		return http.StatusBadRequest, "team_not_found"
	case errors.Is(err, simulation.ErrPlayerNotFound):
		return http.StatusBadRequest, "player_not_found"
	case errors.Is(err, rating.ErrUnknownMethod):
		return http.StatusBadRequest, "unknown_method"
	case errors.Is(err, matchup.ErrSameTeam):
		return http.StatusBadRequest, "same_team"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, matchup.ErrTeamNotFound):
		return http.StatusNotFound, "team_not_found"
	case errors.Is(err, matchup.ErrMissingRating):
		return http.StatusNotFound, "rating_unavailable"
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, service.ErrNotStarted):
		return http.StatusServiceUnavailable, "not_ready"
	case errors.Is(err, cache.ErrDataUnavailable), errors.Is(err, projection.ErrNoTeams):
		return http.StatusInternalServerError, "data_unavailable"
	case errors.Is(err, ranking.ErrAggregationFailure):
		return http.StatusInternalServerError, "aggregation_failure"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
