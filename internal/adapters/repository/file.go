package repository

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/mlbsim/internal/domain/roster"
	"gopkg.in/yaml.v3"
)

// fixture is the on-disk layout read by FileLoader:
//
//	seasons:
//	  2025:
//	    teams:
//	      - name: Boston Red Sox
//	        record: {runs_scored: 721, runs_allowed: 688, games_played: 162, elo: 1512}
//	        players:
//	          - {player_id: 1, player_name: Rafael Devers, position: 3B, position_type: Infielder,
//	             hitting_stats: {ops: .854}}
type fixture struct {
	Seasons map[int]struct {
		Teams []roster.TeamRoster `yaml:"teams"`
	} `yaml:"seasons"`
}

// FileLoader serves rosters from a YAML file. The file is re-read on every
// load so edits show up after the cache is invalidated.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for the YAML file at path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (f *FileLoader) read() (fixture, error) {
	var fx fixture
	b, err := os.ReadFile(f.path)
	if err != nil {
		return fx, fmt.Errorf("read roster file: %w", err)
	}
	if err := yaml.Unmarshal(b, &fx); err != nil {
		return fx, fmt.Errorf("%w: %s: %w", ErrInvalidFixture, f.path, err)
	}
	return fx, nil
}

// LoadSeason implements SeasonLoader.
func (f *FileLoader) LoadSeason(ctx context.Context, season int) (roster.BaseState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fx, err := f.read()
	if err != nil {
		return nil, err
	}
	s, ok := fx.Seasons[season]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrSeasonNotFound, season)
	}
	state := make(roster.BaseState, len(s.Teams))
	for i := range s.Teams {
		t := s.Teams[i]
		if t.Name == "" {
			return nil, fmt.Errorf("%w: season %d team %d has no name", ErrInvalidFixture, season, i)
		}
		if _, dup := state[t.Name]; dup {
			return nil, fmt.Errorf("%w: season %d lists %q twice", ErrInvalidFixture, season, t.Name)
		}
		state[t.Name] = &t
	}
	return state, nil
}

// LatestSeason implements SeasonLoader.
func (f *FileLoader) LatestSeason(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	fx, err := f.read()
	if err != nil {
		return 0, err
	}
	latest := 0
	for s := range fx.Seasons {
		latest = max(latest, s)
	}
	if latest == 0 {
		return 0, ErrNoSeasons
	}
	return latest, nil
}
