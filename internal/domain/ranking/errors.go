package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	// ErrAggregationFailure means there was nothing to compute statistics from.
	ErrAggregationFailure = errors.New("aggregation failure")
)
