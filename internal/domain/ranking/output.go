package ranking

import (
	"encoding/json"
	"math"
)

// Entry is the compact form of a ranked team. It encodes as a
// [team_name, score] pair.
type Entry struct {
	Name  string
	Score float64
}

// MarshalJSON implements json.Marshaler.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{e.Name, e.Score})
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var pair [2]json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[0], &e.Name); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], &e.Score)
}

// CompactResult is the per-league list of compact entries.
type CompactResult struct {
	AL []Entry `json:"AL"`
	NL []Entry `json:"NL"`
}

// Compact returns the [name, score] form with scores rounded to 3 decimals.
func (r Result) Compact() CompactResult {
	return CompactResult{AL: compact(r.AL), NL: compact(r.NL)}
}

func compact(teams []Team) []Entry {
	out := make([]Entry, len(teams))
	for i, t := range teams {
		out[i] = Entry{Name: t.Name, Score: Round(t.Score, 3)}
	}
	return out
}

// Rounded returns a copy with scores and z-scores at 3 decimals and raw
// metric values at 4.
func (r Result) Rounded() Result {
	return Result{AL: rounded(r.AL), NL: rounded(r.NL)}
}

func rounded(teams []Team) []Team {
	out := make([]Team, len(teams))
	for i, t := range teams {
		t.Score = Round(t.Score, 3)
		t.HitterZ = Round(t.HitterZ, 3)
		t.PitcherZ = Round(t.PitcherZ, 3)
		t.HitterValue = Round(t.HitterValue, 4)
		t.PitcherValue = Round(t.PitcherValue, 4)
		out[i] = t
	}
	return out
}

// Round rounds v half away from zero to the given number of decimals.
// Negative zero is normalised to zero.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}
