// Package metric is the closed catalogue of rankable statistics.
package metric

import (
	"fmt"
	"strings"
)

// Kind says which stat line a metric is read from.
type Kind int

// Metric kinds.
const (
	Hitting Kind = iota + 1
	Pitching
)

func (k Kind) String() string {
	switch k {
	case Hitting:
		return "hitter"
	case Pitching:
		return "pitcher"
	default:
		return "unknown"
	}
}

// Spec pairs a metric name with its direction.
type Spec struct {
	Name           string
	Kind           Kind
	HigherIsBetter bool
}

// Orient flips a z-score for lower-is-better metrics so that a larger value
// always means better performance.
func (s Spec) Orient(z float64) float64 {
	if s.HigherIsBetter {
		return z
	}
	return -z
}

// catalogue order is the order valid names are reported in.
var catalogue = []Spec{
	{Name: "avg", Kind: Hitting, HigherIsBetter: true},
	{Name: "ops", Kind: Hitting, HigherIsBetter: true},
	{Name: "ops_plus", Kind: Hitting, HigherIsBetter: true},
	{Name: "hr", Kind: Hitting, HigherIsBetter: true},
	{Name: "rbi", Kind: Hitting, HigherIsBetter: true},
	{Name: "r", Kind: Hitting, HigherIsBetter: true},
	{Name: "h", Kind: Hitting, HigherIsBetter: true},
	{Name: "obp", Kind: Hitting, HigherIsBetter: true},
	{Name: "slg", Kind: Hitting, HigherIsBetter: true},

	{Name: "era", Kind: Pitching, HigherIsBetter: false},
	{Name: "era_plus", Kind: Pitching, HigherIsBetter: true},
	{Name: "whip", Kind: Pitching, HigherIsBetter: false},
	{Name: "so", Kind: Pitching, HigherIsBetter: true},
	{Name: "w", Kind: Pitching, HigherIsBetter: true},
	{Name: "l", Kind: Pitching, HigherIsBetter: false},
	{Name: "bb", Kind: Pitching, HigherIsBetter: false},
}

var byName = func() map[string]Spec {
	m := make(map[string]Spec, len(catalogue))
	for _, s := range catalogue {
		m[s.Name] = s
	}
	return m
}()

// Lookup returns the spec for name. Names are matched case-insensitively.
func Lookup(name string) (Spec, bool) {
	s, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// All returns every catalogued metric.
func All() []Spec {
	out := make([]Spec, len(catalogue))
	copy(out, catalogue)
	return out
}

// Names returns the metric names of one kind in catalogue order.
func Names(kind Kind) []string {
	var out []string
	for _, s := range catalogue {
		if s.Kind == kind {
			out = append(out, s.Name)
		}
	}
	return out
}

// Validate resolves name as a metric of the given kind.
func Validate(name string, kind Kind) (Spec, error) {
	s, ok := Lookup(name)
	if !ok || s.Kind != kind {
		return Spec{}, &UnknownMetricError{Name: name, Kind: kind, Valid: Names(kind)}
	}
	return s, nil
}

// UnknownMetricError reports a metric outside the catalogue together with
// the names that would have been accepted.
type UnknownMetricError struct {
	Name  string
	Kind  Kind
	Valid []string
}

func (e *UnknownMetricError) Error() string {
	return fmt.Sprintf("unknown %s metric %q; valid metrics: %s", e.Kind, e.Name, strings.Join(e.Valid, ", "))
}

// Unwrap lets callers match with errors.Is(err, ErrUnknownMetric).
func (e *UnknownMetricError) Unwrap() error { return ErrUnknownMetric }

// ValidateHitter resolves a hitting metric.
func ValidateHitter(name string) (Spec, error) { return Validate(name, Hitting) }

// ValidatePitcher resolves a pitching metric.
func ValidatePitcher(name string) (Spec, error) { return Validate(name, Pitching) }
