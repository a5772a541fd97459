package rating

import "github.com/okian/mlbsim/internal/domain/roster"

// HasRating reports whether rec carries what method needs.
func HasRating(rec roster.SeasonRecord, method Method) bool {
	if method == Elo {
		return rec.Elo > 0
	}
	return rec.RunsScored > 0
}

// Strength is the per-team input to a pairwise win probability: a projected
// win rate for Pythagorean, a regressed rating for Elo.
func Strength(rec roster.SeasonRecord, method Method) float64 {
	if method == Elo {
		if rec.Elo <= 0 {
			return InitialElo
		}
		return RegressElo(rec.Elo, EloRegressionWeight)
	}
	if rec.RunsScored <= 0 {
		return LeagueAverage
	}
	return ProjectWinRate(float64(rec.RunsScored), float64(rec.RunsAllowed), ProjectionWeight)
}

// WinProbability returns the single-game win probability of a over b for
// strengths produced by Strength.
func WinProbability(method Method) func(a, b float64) float64 {
	if method == Elo {
		return EloWinProbability
	}
	return Log5
}
