package metric

import "errors"

// ErrUnknownMetric is the kind behind every UnknownMetricError.
var ErrUnknownMetric = errors.New("unknown metric")
