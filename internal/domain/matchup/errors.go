package matchup

import "errors"

var (
	// ErrTeamNotFound means a team is not part of the season.
	ErrTeamNotFound = errors.New("team not found")
	// ErrMissingRating means a team lacks the data the method needs.
	ErrMissingRating = errors.New("rating data unavailable")
	// ErrSameTeam means both sides name the same club.
	ErrSameTeam = errors.New("a team cannot play itself")
)
