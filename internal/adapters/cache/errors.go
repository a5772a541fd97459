package cache

import "errors"

var (
	// ErrDataUnavailable means the season could not be loaded. Nothing is
	// cached when it is returned.
	ErrDataUnavailable = errors.New("data unavailable")
)
