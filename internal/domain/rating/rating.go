// Package rating holds the season-strength formulas used by the matchup and
// projection features.
package rating

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Method selects how team strength is measured.
type Method string

// Methods.
const (
	Pythagorean Method = "Pythagorean"
	Elo         Method = "Elo"
)

// Rating constants.
const (
	PythagoreanExponent = 1.83
	ProjectionWeight    = 0.7
	LeagueAverage       = 0.5

	InitialElo          = 1500.0
	EloRegressionWeight = 0.75
	eloScale            = 400.0
	eloScoreFloor       = 1200.0
	eloScoreRange       = 600.0
	minEloSpread        = 3.0
	maxEloSpread        = 10.0
)

// ParseMethod resolves a method name case-insensitively. An empty name means
// Pythagorean.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "pythagorean":
		return Pythagorean, nil
	case "elo":
		return Elo, nil
	default:
		return "", fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownMethod, s, Pythagorean, Elo)
	}
}

// PythagoreanWinPct is rs^e / (rs^e + ra^e), or 0.5 when both are 0.
func PythagoreanWinPct(runsScored, runsAllowed, exponent float64) float64 {
	if runsScored == 0 && runsAllowed == 0 {
		return LeagueAverage
	}
	rs := math.Pow(runsScored, exponent)
	ra := math.Pow(runsAllowed, exponent)
	return rs / (rs + ra)
}

// ProjectWinRate regresses the Pythagorean expectation toward .500.
func ProjectWinRate(runsScored, runsAllowed, weight float64) float64 {
	p := PythagoreanWinPct(runsScored, runsAllowed, PythagoreanExponent)
	return p*weight + LeagueAverage*(1-weight)
}

// Log5 is the probability that a team with win rate pa beats one with pb.
func Log5(pa, pb float64) float64 {
	den := pa + pb - 2*pa*pb
	if den == 0 {
		return LeagueAverage
	}
	return (pa - pa*pb) / den
}

// EloWinProbability is the chance that a team rated ra beats one rated rb.
func EloWinProbability(ra, rb float64) float64 {
	return 1 / (1 + math.Pow(10, (rb-ra)/eloScale))
}

// RegressElo carries a rating into the next season: r*w + 1500*(1-w).
func RegressElo(r, weight float64) float64 {
	w := decimal.NewFromFloat(weight)
	next := decimal.NewFromFloat(r).Mul(w).
		Add(decimal.NewFromFloat(InitialElo).Mul(decimal.NewFromInt(1).Sub(w)))
	f, _ := next.Float64()
	return f
}

// EloToScore maps 1200..1800 onto 0..100. Values outside are not clamped.
func EloToScore(r float64) float64 {
	return (r - eloScoreFloor) / eloScoreRange * 100
}

// EloSpread is the score standard deviation for a rating, within [3, 10].
func EloSpread(r float64) float64 {
	sd := math.Abs(r-InitialElo) / eloScale * 10
	return math.Max(minEloSpread, math.Min(maxEloSpread, sd))
}
