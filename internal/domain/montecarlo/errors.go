package montecarlo

import "errors"

var (
	// ErrInvalidInput is returned for NaN/Inf means or negative spreads.
	ErrInvalidInput = errors.New("invalid monte carlo input")
)
