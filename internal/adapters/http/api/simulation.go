package api

import (
	"context"
	"net/http"

	"github.com/okian/mlbsim/internal/domain/ranking"
	"github.com/okian/mlbsim/internal/domain/simulation"
)

// SimulationDependencies defines the interface for trade simulations.
type SimulationDependencies interface {
	Simulate(ctx context.Context, req simulation.Request) (simulation.Outcome, error)
}

// SimulationHandler handles simulated ranking requests.
type SimulationHandler struct {
	deps SimulationDependencies
}

// NewSimulationHandler creates a new simulation handler.
func NewSimulationHandler(deps SimulationDependencies) *SimulationHandler {
	return &SimulationHandler{deps: deps}
}

type simulationRequest struct {
	rankingRequest
	Transactions []simulation.Transaction `json:"transactions"`
}

type simulationInfo struct {
	Season              int      `json:"season"`
	HitterMetric        string   `json:"hitter_metric"`
	PitcherMetric       string   `json:"pitcher_metric"`
	TransactionsApplied int      `json:"transactions_applied"`
	TransactionMessages []string `json:"transaction_messages"`
	Status              string   `json:"status"`
}

type compactSimulation struct {
	ranking.CompactResult
	Simulation simulationInfo `json:"simulation"`
}

type detailedSimulation struct {
	detailedRanking
	Simulation simulationInfo `json:"simulation"`
}

// HandleSimulation handles POST /api/simulation/ranking requests.
func (h *SimulationHandler) HandleSimulation(w http.ResponseWriter, r *http.Request) {
	const op = "api.simulation"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req simulationRequest
	if err := decodeJSON(r, &req); err != nil {
		fail(w, "simulation", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		fail(w, "simulation", Wrap(op, err))
		return
	}
	if err := simulation.ValidateAll(req.Transactions); err != nil {
		fail(w, "simulation", Wrap(op, err))
		return
	}

	simReq := req.toSimulation()
	simReq.Transactions = req.Transactions
	out, err := h.deps.Simulate(r.Context(), simReq)
	if err != nil {
		fail(w, "simulation", Wrap(op, err))
		return
	}

	info := simulationInfo{
		Season:              out.Season,
		HitterMetric:        out.Hitter.Name,
		PitcherMetric:       out.Pitcher.Name,
		TransactionsApplied: len(out.Messages),
		TransactionMessages: out.Messages,
		Status:              "success",
	}
	if info.TransactionMessages == nil {
		info.TransactionMessages = []string{}
	}
	if out.Details {
		writeJSON(w, http.StatusOK, detailedSimulation{detailedRanking: newDetailedRanking(out), Simulation: info})
		return
	}
	writeJSON(w, http.StatusOK, compactSimulation{CompactResult: out.Ranking.Compact(), Simulation: info})
}
