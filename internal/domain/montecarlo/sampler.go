// Package montecarlo estimates head-to-head win probabilities by drawing
// normally distributed team scores.
package montecarlo

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// DefaultTrials is the trial count used when none is given.
	DefaultTrials = 10_000
	// DefaultGamesPlayed stands in for an unknown or non-positive games count.
	DefaultGamesPlayed = 100
	// DefaultSpreadScale gives sd = 100 / sqrt(games played).
	DefaultSpreadScale = 100.0
)

// Estimate is the outcome of one estimation.
type Estimate struct {
	// ProbA and ProbB are percentages in [0, 100] summing to 100.
	ProbA float64 `json:"prob_a"`
	ProbB float64 `json:"prob_b"`
	// MeanA and MeanB are the average draws, after clipping.
	MeanA  float64 `json:"mean_a"`
	MeanB  float64 `json:"mean_b"`
	Trials int     `json:"trials"`
}

// Sampler is stateless between calls apart from its configuration, so one
// instance can be shared by concurrent requests.
type Sampler struct {
	seed          uint64
	seeded        bool
	clip          bool
	lo, hi        float64
	spreadScale   float64
	defaultTrials int
}

var streamCounter atomic.Uint64

// New creates a Sampler.
func New(opts ...Option) *Sampler {
	s := &Sampler{
		spreadScale:   DefaultSpreadScale,
		defaultTrials: DefaultTrials,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spread returns the standard deviation used for a team that has played
// games games.
func (s *Sampler) Spread(games int) float64 {
	if games <= 0 {
		games = DefaultGamesPlayed
	}
	return s.spreadScale / math.Sqrt(float64(games))
}

// EstimateWinProbability draws trials pairs of scores, each centred on the
// team's rating with a spread shrinking with games played, and reports how
// often team A strictly beats team B.
func (s *Sampler) EstimateWinProbability(scoreA, scoreB float64, gamesA, gamesB, trials int) (Estimate, error) {
	return s.EstimateFromSpread(scoreA, s.Spread(gamesA), scoreB, s.Spread(gamesB), trials)
}

// EstimateFromSpread is EstimateWinProbability with explicit standard
// deviations.
func (s *Sampler) EstimateFromSpread(meanA, sdA, meanB, sdB float64, trials int) (Estimate, error) {
	for _, v := range []float64{meanA, sdA, meanB, sdB} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Estimate{}, fmt.Errorf("%w: non-finite parameter %v", ErrInvalidInput, v)
		}
	}
	if sdA < 0 || sdB < 0 {
		return Estimate{}, fmt.Errorf("%w: negative spread (%v, %v)", ErrInvalidInput, sdA, sdB)
	}
	if trials <= 0 {
		trials = s.defaultTrials
	}

	// Both teams draw from one stream.
	src := s.source()
	a := distuv.Normal{Mu: meanA, Sigma: sdA, Src: src}
	b := distuv.Normal{Mu: meanB, Sigma: sdB, Src: src}

	var wins int
	var sumA, sumB float64
	for range trials {
		x, y := s.bound(a.Rand()), s.bound(b.Rand())
		sumA += x
		sumB += y
		if x > y {
			wins++
		}
	}

	probA := float64(wins) / float64(trials) * 100
	return Estimate{
		ProbA:  probA,
		ProbB:  100 - probA,
		MeanA:  sumA / float64(trials),
		MeanB:  sumB / float64(trials),
		Trials: trials,
	}, nil
}

func (s *Sampler) source() rand.Source {
	if s.seeded {
		return rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15)
	}
	n := streamCounter.Add(1)
	return rand.NewPCG(uint64(time.Now().UnixNano()), n)
}

func (s *Sampler) bound(v float64) float64 {
	if !s.clip {
		return v
	}
	return math.Max(s.lo, math.Min(s.hi, v))
}
