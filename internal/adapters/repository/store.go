// Package repository loads season rosters from the upstream store.
package repository

import (
	"context"

	"github.com/okian/mlbsim/internal/domain/roster"
)

// SeasonLoader reads rosters from an upstream store. Implementations never
// write.
type SeasonLoader interface {
	// LoadSeason returns every team of season with its players, stat lines
	// and season record.
	LoadSeason(ctx context.Context, season int) (roster.BaseState, error)

	// LatestSeason returns the most recent season the store holds.
	LatestSeason(ctx context.Context) (int, error)
}
