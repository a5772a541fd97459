package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	service "github.com/okian/mlbsim/internal/app"
)

// MaxSimulations bounds the simulations a single projection request may ask for.
const MaxSimulations = 20_000

// ProjectionDependencies defines the interface for season projections.
type ProjectionDependencies interface {
	Project(ctx context.Context, method string, season, sims int) (service.ProjectionResult, error)
}

// ProjectionHandler handles projection requests.
type ProjectionHandler struct {
	deps ProjectionDependencies
}

// NewProjectionHandler creates a new projection handler.
func NewProjectionHandler(deps ProjectionDependencies) *ProjectionHandler {
	return &ProjectionHandler{deps: deps}
}

type projectionRequest struct {
	Method      string `json:"method,omitempty"`
	Season      int    `json:"season,omitempty"`
	Simulations int    `json:"simulations,omitempty"`
}

func (p projectionRequest) validate() error {
	switch {
	case p.Season < 0:
		return errors.New("season must be positive")
	case p.Simulations < 0 || p.Simulations > MaxSimulations:
		return errors.New("simulations out of range")
	}
	return nil
}

// HandleProjection handles POST /api/projection requests. An empty body
// projects the default season with the default method.
func (h *ProjectionHandler) HandleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "api.projection"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req projectionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		fail(w, "projection", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		fail(w, "projection", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Project(r.Context(), req.Method, req.Season, req.Simulations)
	if err != nil {
		fail(w, "projection", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
