// Package roster holds the per-season roster snapshot the simulation works on.
package roster

import (
	"sort"
	"strings"
)

// PositionType is the coarse position class used to split hitters from pitchers.
type PositionType string

// Known position types.
const (
	Pitcher    PositionType = "Pitcher"
	Catcher    PositionType = "Catcher"
	Infielder  PositionType = "Infielder"
	Outfielder PositionType = "Outfielder"
	Hitter     PositionType = "Hitter"
	TwoWay     PositionType = "Two-Way Player"
)

// IsPitcher reports whether the type contributes pitching stats.
func (p PositionType) IsPitcher() bool { return p == Pitcher }

// IsHitter reports whether the type contributes hitting stats. Every
// non-pitcher type counts, including unknown ones.
func (p PositionType) IsHitter() bool { return !p.IsPitcher() }

// listingOrder sorts pitchers first, then catchers, infielders, outfielders, everyone else.
func (p PositionType) listingOrder() int {
	switch p {
	case Pitcher:
		return 1
	case Catcher:
		return 2
	case Infielder:
		return 3
	case Outfielder:
		return 4
	default:
		return 5
	}
}

// Filter selects players by position type.
type Filter func(PositionType) bool

// Position filters used by aggregation.
var (
	Hitters  Filter = PositionType.IsHitter
	Pitchers Filter = PositionType.IsPitcher
)

// Player is one player row with the stats loaded for the season. Stat maps
// only contain metrics that are present; an absent key means "no value".
type Player struct {
	ID           int64              `json:"player_id" yaml:"player_id"`
	Name         string             `json:"player_name" yaml:"player_name"`
	Position     string             `json:"position" yaml:"position"`
	PositionType PositionType       `json:"position_type" yaml:"position_type"`
	Hitting      map[string]float64 `json:"hitting_stats,omitempty" yaml:"hitting_stats,omitempty"`
	Pitching     map[string]float64 `json:"pitching_stats,omitempty" yaml:"pitching_stats,omitempty"`
}

// Clone returns a copy that shares no maps with p.
func (p Player) Clone() Player {
	out := p
	out.Hitting = cloneStats(p.Hitting)
	out.Pitching = cloneStats(p.Pitching)
	return out
}

func cloneStats(in map[string]float64) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// SeasonRecord carries the team-level season totals used by the rating models.
// Zero values mean the data is unknown.
type SeasonRecord struct {
	RunsScored  int     `json:"runs_scored" yaml:"runs_scored"`
	RunsAllowed int     `json:"runs_allowed" yaml:"runs_allowed"`
	GamesPlayed int     `json:"games_played" yaml:"games_played"`
	Elo         float64 `json:"elo" yaml:"elo"`
}

// TeamRoster is one club and the players it currently lists. Player order
// carries no meaning.
type TeamRoster struct {
	Name    string       `json:"team_name" yaml:"name"`
	Players []Player     `json:"players" yaml:"players"`
	Record  SeasonRecord `json:"record" yaml:"record"`
}

// Clone returns a deep copy of the roster.
func (t *TeamRoster) Clone() *TeamRoster {
	players := make([]Player, len(t.Players))
	for i, p := range t.Players {
		players[i] = p.Clone()
	}
	return &TeamRoster{Name: t.Name, Players: players, Record: t.Record}
}

// IndexOf returns the index of the first player whose name matches
// case-insensitively, or -1.
func (t *TeamRoster) IndexOf(name string) int {
	name = strings.TrimSpace(name)
	for i, p := range t.Players {
		if strings.EqualFold(p.Name, name) {
			return i
		}
	}
	return -1
}

// RemoveAt removes and returns the player at index i.
func (t *TeamRoster) RemoveAt(i int) Player {
	p := t.Players[i]
	t.Players = append(t.Players[:i], t.Players[i+1:]...)
	return p
}

// Add appends a player to the roster.
func (t *TeamRoster) Add(p Player) {
	t.Players = append(t.Players, p)
}

// Listing returns the players in display order: by position type, then
// position, then name.
func (t *TeamRoster) Listing() []Player {
	out := make([]Player, len(t.Players))
	copy(out, t.Players)
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := out[i].PositionType.listingOrder(), out[j].PositionType.listingOrder()
		if oi != oj {
			return oi < oj
		}
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// BaseState maps team name to roster for one season.
//
// A BaseState held by the cache is shared and must be treated as read-only.
// Call Clone to obtain a private working copy before mutating anything.
type BaseState map[string]*TeamRoster

// Clone returns an independent deep copy: no roster, player slice or stat map
// is shared with s.
func (s BaseState) Clone() BaseState {
	out := make(BaseState, len(s))
	for name, team := range s {
		out[name] = team.Clone()
	}
	return out
}

// Teams returns the team names in ascending order.
func (s BaseState) Teams() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PlayerCount returns the number of players across all teams.
func (s BaseState) PlayerCount() int {
	n := 0
	for _, team := range s {
		n += len(team.Players)
	}
	return n
}
