package ranking

import "sort"

// League is one of the two major-league circuits.
type League string

// Leagues.
const (
	AL League = "AL"
	NL League = "NL"

	// FallbackLeague receives any team missing from the league table.
	FallbackLeague = NL
)

// Division within a league.
type Division string

// Divisions.
const (
	East    Division = "East"
	Central Division = "Central"
	West    Division = "West"
)

// Club is a team's place in the league structure.
type Club struct {
	League   League
	Division Division
}

var clubs = map[string]Club{
	"Baltimore Orioles": {AL, East},
	"Boston Red Sox":    {AL, East},
	"New York Yankees":  {AL, East},
	"Tampa Bay Rays":    {AL, East},
	"Toronto Blue Jays": {AL, East},

	"Chicago White Sox":   {AL, Central},
	"Cleveland Guardians": {AL, Central},
	"Detroit Tigers":      {AL, Central},
	"Kansas City Royals":  {AL, Central},
	"Minnesota Twins":     {AL, Central},

	"Houston Astros":     {AL, West},
	"Los Angeles Angels": {AL, West},
	"Oakland Athletics":  {AL, West},
	"Athletics":          {AL, West},
	"Seattle Mariners":   {AL, West},
	"Texas Rangers":      {AL, West},

	"Atlanta Braves":        {NL, East},
	"Miami Marlins":         {NL, East},
	"New York Mets":         {NL, East},
	"Philadelphia Phillies": {NL, East},
	"Washington Nationals":  {NL, East},

	"Chicago Cubs":        {NL, Central},
	"Cincinnati Reds":     {NL, Central},
	"Milwaukee Brewers":   {NL, Central},
	"Pittsburgh Pirates":  {NL, Central},
	"St. Louis Cardinals": {NL, Central},

	"Arizona Diamondbacks": {NL, West},
	"Colorado Rockies":     {NL, West},
	"Los Angeles Dodgers":  {NL, West},
	"San Diego Padres":     {NL, West},
	"San Francisco Giants": {NL, West},
}

// ClubOf returns the league and division of team.
func ClubOf(team string) (Club, bool) {
	c, ok := clubs[team]
	return c, ok
}

// LeagueOf returns the league of team, or FallbackLeague with ok=false when
// the team is not in the table.
func LeagueOf(team string) (League, bool) {
	if c, ok := clubs[team]; ok {
		return c.League, true
	}
	return FallbackLeague, false
}

// KnownTeams returns every team name in the table, sorted.
func KnownTeams() []string {
	out := make([]string, 0, len(clubs))
	for name := range clubs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
