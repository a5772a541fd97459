package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/mlbsim/internal/app"
)

// MatchupDependencies defines the interface for head-to-head analysis.
type MatchupDependencies interface {
	Matchup(ctx context.Context, teamA, teamB, method string, season int) (service.MatchupResult, error)
}

// MatchupHandler handles matchup requests.
type MatchupHandler struct {
	deps MatchupDependencies
}

// NewMatchupHandler creates a new matchup handler.
func NewMatchupHandler(deps MatchupDependencies) *MatchupHandler {
	return &MatchupHandler{deps: deps}
}

type matchupRequest struct {
	TeamA  string `json:"team_A"`
	TeamB  string `json:"team_B"`
	Method string `json:"method,omitempty"`
	Season int    `json:"season,omitempty"`
}

func (m matchupRequest) validate() error {
	switch {
	case strings.TrimSpace(m.TeamA) == "":
		return errors.New("missing team_A")
	case strings.TrimSpace(m.TeamB) == "":
		return errors.New("missing team_B")
	case m.Season < 0:
		return errors.New("season must be positive")
	}
	return nil
}

// HandleMatchup handles POST /api/matchup requests.
func (h *MatchupHandler) HandleMatchup(w http.ResponseWriter, r *http.Request) {
	const op = "api.matchup"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req matchupRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, "matchup", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		fail(w, "matchup", WrapKind(op, ErrBadRequest, err))
		return
	}
	res, err := h.deps.Matchup(r.Context(), strings.TrimSpace(req.TeamA), strings.TrimSpace(req.TeamB), req.Method, req.Season)
	if err != nil {
		fail(w, "matchup", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
