// Package projection simulates a balanced regular season from team ratings.
package projection

import (
	"context"
	"errors"
	"math/rand/v2"
	"sort"
	"sync/atomic"
	"time"

	"github.com/okian/mlbsim/internal/domain/ranking"
	"github.com/okian/mlbsim/internal/domain/rating"
	"github.com/okian/mlbsim/internal/domain/roster"
	"gonum.org/v1/gonum/stat/distuv"
)

// Games per opponent in the balanced schedule.
const (
	DivisionGames    = 13
	LeagueGames      = 6
	InterleagueGames = 3

	DefaultSimulations = 1_000
)

// ErrNoTeams is returned when the state is empty.
var ErrNoTeams = errors.New("no teams to project")

// Team is one club's projected season.
type Team struct {
	Rank             int              `json:"rank"`
	Name             string           `json:"team_name"`
	League           ranking.League   `json:"league"`
	Division         ranking.Division `json:"division,omitempty"`
	Strength         float64          `json:"strength"`
	Games            int              `json:"games"`
	ExpectedWins     float64          `json:"expected_wins"`
	ExpectedLosses   float64          `json:"expected_losses"`
	DivisionTitlePct float64          `json:"division_title_pct"`
}

// Result holds the projected standings of both leagues.
type Result struct {
	AL           []Team             `json:"AL"`
	NL           []Team             `json:"NL"`
	ExpectedWins map[string]float64 `json:"expected_wins"`
	Method       rating.Method      `json:"method"`
	Simulations  int                `json:"simulations"`
}

// Projector runs season simulations.
type Projector struct {
	simulations int
	seed        uint64
	seeded      bool
}

// Option configures a Projector.
type Option func(*Projector)

// WithSimulations sets the default number of simulated seasons.
func WithSimulations(n int) Option {
	return func(p *Projector) {
		if n > 0 {
			p.simulations = n
		}
	}
}

// WithSeed makes every projection reproducible.
func WithSeed(seed uint64) Option {
	return func(p *Projector) {
		p.seed = seed
		p.seeded = true
	}
}

// New creates a Projector.
func New(opts ...Option) *Projector {
	p := &Projector{simulations: DefaultSimulations}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type entry struct {
	name     string
	club     ranking.Club
	known    bool
	strength float64
	games    int
	wins     int
	titles   float64
}

var streamCounter atomic.Uint64

// Project simulates sims seasons (the projector default when sims <= 0).
// Teams without rating data play at a neutral strength.
func (p *Projector) Project(ctx context.Context, state roster.BaseState, method rating.Method, sims int) (Result, error) {
	if len(state) == 0 {
		return Result{}, ErrNoTeams
	}
	if sims <= 0 {
		sims = p.simulations
	}

	names := state.Teams()
	teams := make([]*entry, len(names))
	for i, name := range names {
		club, known := ranking.ClubOf(name)
		if !known {
			club.League = ranking.FallbackLeague
		}
		teams[i] = &entry{
			name:     name,
			club:     club,
			known:    known,
			strength: rating.Strength(state[name].Record, method),
		}
	}

	type pairing struct {
		a, b  *entry
		games int
		p     float64
	}
	winProb := rating.WinProbability(method)
	var schedule []pairing
	for i := 0; i < len(teams); i++ {
		for j := i + 1; j < len(teams); j++ {
			a, b := teams[i], teams[j]
			g := gamesBetween(a, b)
			a.games += g
			b.games += g
			schedule = append(schedule, pairing{a: a, b: b, games: g, p: winProb(a.strength, b.strength)})
		}
	}

	src := p.source()
	seasonWins := make(map[*entry]int, len(teams))
	for s := 0; s < sims; s++ {
		if s%100 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		clear(seasonWins)
		for _, m := range schedule {
			w := int(distuv.Binomial{N: float64(m.games), P: m.p, Src: src}.Rand())
			seasonWins[m.a] += w
			seasonWins[m.b] += m.games - w
		}
		for _, t := range teams {
			t.wins += seasonWins[t]
		}
		awardDivisions(teams, seasonWins)
	}

	res := Result{ExpectedWins: make(map[string]float64, len(teams)), Method: method, Simulations: sims}
	var all []Team
	for _, t := range teams {
		wins := float64(t.wins) / float64(sims)
		res.ExpectedWins[t.name] = ranking.Round(wins, 1)
		all = append(all, Team{
			Name:             t.name,
			League:           t.club.League,
			Division:         t.club.Division,
			Strength:         ranking.Round(t.strength, 4),
			Games:            t.games,
			ExpectedWins:     ranking.Round(wins, 1),
			ExpectedLosses:   ranking.Round(float64(t.games)-wins, 1),
			DivisionTitlePct: ranking.Round(t.titles/float64(sims)*100, 2),
		})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].ExpectedWins != all[j].ExpectedWins {
			return all[i].ExpectedWins > all[j].ExpectedWins
		}
		return all[i].Name < all[j].Name
	})
	for _, t := range all {
		if t.League == ranking.AL {
			t.Rank = len(res.AL) + 1
			res.AL = append(res.AL, t)
		} else {
			t.Rank = len(res.NL) + 1
			res.NL = append(res.NL, t)
		}
	}
	return res, nil
}

func gamesBetween(a, b *entry) int {
	switch {
	case a.club.League != b.club.League:
		return InterleagueGames
	case a.known && b.known && a.club.Division == b.club.Division:
		return DivisionGames
	default:
		return LeagueGames
	}
}

// awardDivisions credits each division leader of one season. Shared leads
// split the title evenly. Teams outside the league table are not eligible.
func awardDivisions(teams []*entry, wins map[*entry]int) {
	leaders := make(map[ranking.Club][]*entry)
	best := make(map[ranking.Club]int)
	for _, t := range teams {
		if !t.known {
			continue
		}
		w := wins[t]
		cur, seen := best[t.club]
		switch {
		case !seen || w > cur:
			best[t.club] = w
			leaders[t.club] = []*entry{t}
		case w == cur:
			leaders[t.club] = append(leaders[t.club], t)
		}
	}
	for _, ls := range leaders {
		share := 1 / float64(len(ls))
		for _, t := range ls {
			t.titles += share
		}
	}
}

func (p *Projector) source() rand.Source {
	if p.seeded {
		return rand.NewPCG(p.seed, p.seed^0xda942042e4dd58b5)
	}
	return rand.NewPCG(uint64(time.Now().UnixNano()), streamCounter.Add(1))
}
