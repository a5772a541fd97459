package probe

import "fmt"

// teamsPerLeague is the size of a full league.
const teamsPerLeague = 15

// verifyRanking checks a ranking covering teams clubs.
func verifyRanking(r Ranking, teams int) []string {
	var out []string
	if n := len(r.AL) + len(r.NL); n != teams {
		out = append(out, fmt.Sprintf("ranked %d teams, want %d", n, teams))
	}
	if teams == 2*teamsPerLeague && (len(r.AL) != teamsPerLeague || len(r.NL) != teamsPerLeague) {
		out = append(out, fmt.Sprintf("leagues have %d+%d teams, want %d+%d", len(r.AL), len(r.NL), teamsPerLeague, teamsPerLeague))
	}
	out = append(out, verifyLeague("AL", r.AL)...)
	out = append(out, verifyLeague("NL", r.NL)...)
	return out
}

// verifyLeague checks ranks run 1..n and scores never increase.
func verifyLeague(name string, teams []RankedTeam) []string {
	var out []string
	for i, t := range teams {
		if t.Rank != i+1 {
			out = append(out, fmt.Sprintf("%s position %d has rank %d", name, i+1, t.Rank))
		}
		if i > 0 && t.Score > teams[i-1].Score {
			out = append(out, fmt.Sprintf("%s %s (%.3f) ranked below %s (%.3f)", name, t.Name, t.Score, teams[i-1].Name, teams[i-1].Score))
		}
	}
	return out
}

// verifySimulation checks a simulation response against its scenario.
func verifySimulation(res SimulationResponse, s Scenario, teams int) []string {
	out := verifyRanking(res.Ranking, teams)
	if res.Simulation.Status != "success" {
		out = append(out, fmt.Sprintf("status %q", res.Simulation.Status))
	}
	if res.Simulation.TransactionsApplied != len(s.Transactions) {
		out = append(out, fmt.Sprintf("transactions_applied %d, sent %d", res.Simulation.TransactionsApplied, len(s.Transactions)))
	}
	if len(res.Simulation.TransactionMessages) != len(s.Transactions) {
		out = append(out, fmt.Sprintf("%d transaction messages, sent %d", len(res.Simulation.TransactionMessages), len(s.Transactions)))
	}
	return out
}

// compareRankings reports any difference between two rankings of the same
// season. The base ranking must not move when simulations run.
func compareRankings(before, after Ranking) []string {
	var out []string
	out = append(out, compareLeague("AL", before.AL, after.AL)...)
	out = append(out, compareLeague("NL", before.NL, after.NL)...)
	return out
}

func compareLeague(name string, before, after []RankedTeam) []string {
	if len(before) != len(after) {
		return []string{fmt.Sprintf("%s size changed from %d to %d", name, len(before), len(after))}
	}
	var out []string
	for i := range before {
		if before[i] != after[i] {
			out = append(out, fmt.Sprintf("%s position %d changed from %+v to %+v", name, i+1, before[i], after[i]))
		}
	}
	return out
}
