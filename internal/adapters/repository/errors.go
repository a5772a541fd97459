package repository

import "errors"

// Sentinel kinds for roster loading errors.
var (
	ErrSeasonNotFound = errors.New("season not found")
	ErrNoSeasons      = errors.New("no seasons loaded")
	ErrInvalidFixture = errors.New("invalid roster fixture")
)
