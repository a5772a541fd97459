// Package aggregate turns player stat rows into per-team averages.
package aggregate

import (
	"math"

	"github.com/okian/mlbsim/internal/domain/metric"
	"github.com/okian/mlbsim/internal/domain/roster"
	"gonum.org/v1/gonum/stat"
)

// Aggregate averages spec across the players of each team accepted by
// filter. Players without the metric are skipped rather than counted as
// zero, and a team with no contributing player is left out of the result.
func Aggregate(state roster.BaseState, spec metric.Spec, filter roster.Filter) map[string]float64 {
	out := make(map[string]float64, len(state))
	var xs []float64
	for name, team := range state {
		xs = xs[:0]
		for _, p := range team.Players {
			if filter != nil && !filter(p.PositionType) {
				continue
			}
			if v, ok := value(p, spec); ok {
				xs = append(xs, v)
			}
		}
		if len(xs) > 0 {
			out[name] = stat.Mean(xs, nil)
		}
	}
	return out
}

// Hitters averages a hitting metric over every non-pitcher.
func Hitters(state roster.BaseState, spec metric.Spec) map[string]float64 {
	return Aggregate(state, spec, roster.Hitters)
}

// Pitchers averages a pitching metric over every pitcher.
func Pitchers(state roster.BaseState, spec metric.Spec) map[string]float64 {
	return Aggregate(state, spec, roster.Pitchers)
}

func value(p roster.Player, spec metric.Spec) (float64, bool) {
	stats := p.Hitting
	if spec.Kind == metric.Pitching {
		stats = p.Pitching
	}
	v, ok := stats[spec.Name]
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
