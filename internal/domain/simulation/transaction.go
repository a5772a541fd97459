package simulation

import (
	"fmt"
	"strings"

	"github.com/okian/mlbsim/internal/domain/roster"
)

// Transaction moves one player between two rosters for the length of a
// single request.
type Transaction struct {
	PlayerName string `json:"player_name"`
	// Position is required but informational; it plays no part in matching.
	Position string `json:"position"`
	FromTeam string `json:"from_team"`
	ToTeam   string `json:"to_team"`
}

// Validate checks the required fields. index is the transaction's position
// in the request and only appears in the error.
func (t Transaction) Validate(index int) error {
	var missing []string
	if strings.TrimSpace(t.PlayerName) == "" {
		missing = append(missing, "player_name")
	}
	if strings.TrimSpace(t.Position) == "" {
		missing = append(missing, "position")
	}
	if strings.TrimSpace(t.FromTeam) == "" {
		missing = append(missing, "from_team")
	}
	if strings.TrimSpace(t.ToTeam) == "" {
		missing = append(missing, "to_team")
	}
	if len(missing) > 0 {
		return fmt.Errorf("transaction %d: %w: %s", index, ErrMissingField, strings.Join(missing, ", "))
	}
	return nil
}

// ValidateAll checks every transaction and rejects an empty list.
func ValidateAll(txns []Transaction) error {
	if len(txns) == 0 {
		return fmt.Errorf("%w: transactions", ErrMissingField)
	}
	for i, t := range txns {
		if err := t.Validate(i); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTransactions applies txns to state in order and returns one message
// per trade. It stops at the first failure, leaving state partly modified,
// so state must be a private clone that is discarded on error.
func ApplyTransactions(state roster.BaseState, txns []Transaction) ([]string, error) {
	messages := make([]string, 0, len(txns))
	for i, t := range txns {
		if err := t.Validate(i); err != nil {
			return nil, err
		}
		from, ok := state[t.FromTeam]
		if !ok {
			return nil, fmt.Errorf("transaction %d: %w: from_team %q", i, ErrTeamNotFound, t.FromTeam)
		}
		to, ok := state[t.ToTeam]
		if !ok {
			return nil, fmt.Errorf("transaction %d: %w: to_team %q", i, ErrTeamNotFound, t.ToTeam)
		}
		idx := from.IndexOf(t.PlayerName)
		if idx < 0 {
			return nil, fmt.Errorf("transaction %d: %w: %q on %s", i, ErrPlayerNotFound, t.PlayerName, t.FromTeam)
		}
		to.Add(from.RemoveAt(idx))
		messages = append(messages, fmt.Sprintf("Traded %s from %s to %s", t.PlayerName, t.FromTeam, t.ToTeam))
	}
	return messages, nil
}
