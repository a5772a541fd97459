// Package probe drives a running simulator over HTTP with random trade
// scenarios and checks the invariants every response must hold.
package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL       string        // Base URL of the service
	Scenarios     int           // Number of trade scenarios to post
	TradesPer     int           // Trades per scenario
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	Season        int           // Season to probe; 0 uses the server default
	HitterMetric  string        // Hitting metric for every request
	PitcherMetric string        // Pitching metric for every request
	Seed          uint64        // Scenario generator seed; 0 picks one
	OutputFile    string        // Optional JSON dump of the scenarios
	Verbose       bool          // Log every failed scenario
}

// Transaction mirrors one entry of the simulation request.
type Transaction struct {
	PlayerName string `json:"player_name"`
	Position   string `json:"position"`
	FromTeam   string `json:"from_team"`
	ToTeam     string `json:"to_team"`
}

// Scenario is one simulation request.
type Scenario struct {
	ID           string        `json:"id"`
	Transactions []Transaction `json:"transactions"`
}

// RankedTeam is a detailed ranking row.
type RankedTeam struct {
	Rank         int     `json:"rank"`
	Name         string  `json:"team_name"`
	Score        float64 `json:"score"`
	HitterValue  float64 `json:"hitter_value"`
	PitcherValue float64 `json:"pitcher_value"`
}

// Ranking is the details=true ranking body.
type Ranking struct {
	AL            []RankedTeam `json:"AL"`
	NL            []RankedTeam `json:"NL"`
	Season        int          `json:"season"`
	HitterMetric  string       `json:"hitter_metric"`
	PitcherMetric string       `json:"pitcher_metric"`
}

// Teams returns the team names of both leagues.
func (r Ranking) Teams() []string {
	out := make([]string, 0, len(r.AL)+len(r.NL))
	for _, t := range r.AL {
		out = append(out, t.Name)
	}
	for _, t := range r.NL {
		out = append(out, t.Name)
	}
	return out
}

// SimulationSummary is the "simulation" object of a simulation response.
type SimulationSummary struct {
	Season              int      `json:"season"`
	TransactionsApplied int      `json:"transactions_applied"`
	TransactionMessages []string `json:"transaction_messages"`
	Status              string   `json:"status"`
}

// SimulationResponse is the details=true simulation body.
type SimulationResponse struct {
	Ranking
	Simulation SimulationSummary `json:"simulation"`
}

// Player is a roster row as the matchup endpoint lists it.
type Player struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Position     string `json:"position"`
	PositionType string `json:"position_type"`
}

type matchupResponse struct {
	TeamA     []Player `json:"team_A"`
	TeamB     []Player `json:"team_B"`
	TeamAName string   `json:"team_A_name"`
	TeamBName string   `json:"team_B_name"`
}

// Stats holds run statistics.
type Stats struct {
	ScenariosGenerated int
	ScenariosPosted    int
	ScenariosPassed    int
	ScenariosFailed    int
	Violations         int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
