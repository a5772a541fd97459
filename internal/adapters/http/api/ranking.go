package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/mlbsim/internal/domain/ranking"
	"github.com/okian/mlbsim/internal/domain/simulation"
)

// RankingDependencies defines the interface for ranking operations.
type RankingDependencies interface {
	Rank(ctx context.Context, req simulation.Request) (simulation.Outcome, error)
}

// RankingHandler handles ranking requests.
type RankingHandler struct {
	deps RankingDependencies
}

// NewRankingHandler creates a new ranking handler.
func NewRankingHandler(deps RankingDependencies) *RankingHandler {
	return &RankingHandler{deps: deps}
}

// rankingRequest mirrors the OpenAPI schema for POST /api/ranking.
type rankingRequest struct {
	HitterMetric  string `json:"hitter_metric"`
	PitcherMetric string `json:"pitcher_metric"`
	Season        int    `json:"season,omitempty"`
	Details       bool   `json:"details,omitempty"`
}

func (r rankingRequest) validate() error {
	switch {
	case strings.TrimSpace(r.HitterMetric) == "":
		return fmt.Errorf("%w: hitter_metric", simulation.ErrMissingField)
	case strings.TrimSpace(r.PitcherMetric) == "":
		return fmt.Errorf("%w: pitcher_metric", simulation.ErrMissingField)
	case r.Season < 0:
		return fmt.Errorf("%w: season must be positive", ErrBadRequest)
	}
	return nil
}

func (r rankingRequest) toSimulation() simulation.Request {
	return simulation.Request{
		HitterMetric:  strings.TrimSpace(r.HitterMetric),
		PitcherMetric: strings.TrimSpace(r.PitcherMetric),
		Season:        r.Season,
		Details:       r.Details,
	}
}

// detailedRanking is the details=true body.
type detailedRanking struct {
	AL            []ranking.Team `json:"AL"`
	NL            []ranking.Team `json:"NL"`
	Season        int            `json:"season"`
	HitterMetric  string         `json:"hitter_metric"`
	PitcherMetric string         `json:"pitcher_metric"`
}

func newDetailedRanking(out simulation.Outcome) detailedRanking {
	r := out.Ranking.Rounded()
	return detailedRanking{
		AL:            r.AL,
		NL:            r.NL,
		Season:        out.Season,
		HitterMetric:  out.Hitter.Name,
		PitcherMetric: out.Pitcher.Name,
	}
}

// HandleRanking handles POST /api/ranking requests.
func (h *RankingHandler) HandleRanking(w http.ResponseWriter, r *http.Request) {
	const op = "api.ranking"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req rankingRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, "ranking", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		fail(w, "ranking", Wrap(op, err))
		return
	}
	out, err := h.deps.Rank(r.Context(), req.toSimulation())
	if err != nil {
		fail(w, "ranking", Wrap(op, err))
		return
	}
	if out.Details {
		writeJSON(w, http.StatusOK, newDetailedRanking(out))
		return
	}
	writeJSON(w, http.StatusOK, out.Ranking.Compact())
}
