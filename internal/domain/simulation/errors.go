package simulation

import "errors"

var (
	// ErrMissingField means a transaction lacks a required field, or the
	// transaction list itself is empty.
	ErrMissingField = errors.New("missing required field")
	// ErrTeamNotFound means a transaction names a team absent from the season.
	ErrTeamNotFound = errors.New("team not found")
	// ErrPlayerNotFound means the from_team does not list the player.
	ErrPlayerNotFound = errors.New("player not found")
)
