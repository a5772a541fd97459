package service

import "errors"

var (
	// ErrNotStarted is returned by every operation before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrNoLoader means Start was called without a season loader.
	ErrNoLoader = errors.New("no season loader configured")
)
