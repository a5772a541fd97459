package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/mlbsim/internal/adapters/cache"
	"github.com/okian/mlbsim/internal/config"
	"github.com/okian/mlbsim/internal/domain/metric"
	"github.com/okian/mlbsim/internal/domain/ranking"
	"github.com/okian/mlbsim/internal/domain/simulation"
)

const rosterFixture = `
seasons:
  2025:
    teams:
      - name: New York Yankees
        record: {runs_scored: 815, runs_allowed: 650, games_played: 162, elo: 1560}
        players:
          - {player_id: 1, player_name: Aaron Judge, position: RF, position_type: Outfielder, hitting_stats: {ops: 1.145, avg: 0.331}}
          - {player_id: 2, player_name: Max Fried, position: SP, position_type: Pitcher, pitching_stats: {era: 2.86, whip: 1.10}}
      - name: Boston Red Sox
        record: {runs_scored: 786, runs_allowed: 665, games_played: 162, elo: 1530}
        players:
          - {player_id: 3, player_name: Trevor Story, position: SS, position_type: Infielder, hitting_stats: {ops: 0.741, avg: 0.263}}
          - {player_id: 4, player_name: Garrett Crochet, position: SP, position_type: Pitcher, pitching_stats: {era: 2.59, whip: 1.03}}
      - name: Los Angeles Dodgers
        record: {runs_scored: 825, runs_allowed: 683, games_played: 162, elo: 1570}
        players:
          - {player_id: 5, player_name: Shohei Ohtani, position: DH, position_type: Two-Way Player, hitting_stats: {ops: 1.014, avg: 0.282}}
          - {player_id: 6, player_name: Yoshinobu Yamamoto, position: SP, position_type: Pitcher, pitching_stats: {era: 2.49, whip: 1.04}}
      - name: Colorado Rockies
        record: {runs_scored: 597, runs_allowed: 1014, games_played: 162, elo: 1330}
        players:
          - {player_id: 7, player_name: Hunter Goodman, position: C, position_type: Catcher, hitting_stats: {ops: 0.820, avg: 0.278}}
          - {player_id: 8, player_name: Kyle Freeland, position: SP, position_type: Pitcher, pitching_stats: {era: 4.98, whip: 1.53}}
  2026:
    teams:
      - name: New York Yankees
        record: {runs_scored: 0, runs_allowed: 0, games_played: 0, elo: 1540}
        players:
          - {player_id: 1, player_name: Aaron Judge, position: RF, position_type: Outfielder, hitting_stats: {ops: 1.010}}
`

// runCLI executes the root command against a temporary roster file and
// returns what it printed on stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rosters.yaml")
	if err := os.WriteFile(path, []byte(rosterFixture), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	t.Setenv("MLBSIM_DATA_SOURCE", config.DataSourceFile)
	t.Setenv("MLBSIM_ROSTER_FILE", path)

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseTrade(t *testing.T) {
	convey.Convey("Given trade flags", t, func() {
		convey.Convey("When the position is given", func() {
			tr, err := parseTrade("Aaron Judge | New York Yankees | Boston Red Sox | RF")
			convey.So(err, convey.ShouldBeNil)
			convey.So(tr.PlayerName, convey.ShouldEqual, "Aaron Judge")
			convey.So(tr.FromTeam, convey.ShouldEqual, "New York Yankees")
			convey.So(tr.ToTeam, convey.ShouldEqual, "Boston Red Sox")
			convey.So(tr.Position, convey.ShouldEqual, "RF")
		})

		convey.Convey("When the position is omitted", func() {
			_, err := parseTrade("Aaron Judge|New York Yankees|Boston Red Sox")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When the position is blank", func() {
			_, err := parseTrade("Aaron Judge|New York Yankees|Boston Red Sox| ")
			convey.So(errors.Is(err, simulation.ErrMissingField), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "position")
		})

		convey.Convey("When fields are missing", func() {
			_, err := parseTrade("Aaron Judge|New York Yankees")
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestReadTradeFile(t *testing.T) {
	convey.Convey("Given a trade file", t, func() {
		path := filepath.Join(t.TempDir(), "trades.yaml")
		content := "transactions:\n  - {player_name: Max Fried, position: SP, from_team: New York Yankees, to_team: Colorado Rockies}\n"
		convey.So(os.WriteFile(path, []byte(content), 0o600), convey.ShouldBeNil)

		txns, err := readTradeFile(path)
		convey.So(err, convey.ShouldBeNil)
		convey.So(txns, convey.ShouldHaveLength, 1)
		convey.So(txns[0].PlayerName, convey.ShouldEqual, "Max Fried")
		convey.So(txns[0].ToTeam, convey.ShouldEqual, "Colorado Rockies")
	})
}

func TestCommands(t *testing.T) {
	convey.Convey("Given the command tree over a roster file", t, func() {
		convey.Convey("When the season is ranked", func() {
			out, err := runCLI(t, "rank", "--hitter", "ops", "--pitcher", "era")
			convey.So(err, convey.ShouldBeNil)

			var res ranking.CompactResult
			convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
			convey.So(res.AL, convey.ShouldHaveLength, 2)
			convey.So(res.NL, convey.ShouldHaveLength, 2)
			convey.So(res.NL[0].Name, convey.ShouldEqual, "Los Angeles Dodgers")
		})

		convey.Convey("When details are asked for", func() {
			out, err := runCLI(t, "rank", "--details", "--hitter", "avg", "--pitcher", "whip")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"hitter_metric": "avg"`)
			convey.So(out, convey.ShouldContainSubstring, `"season": 2025`)
			convey.So(out, convey.ShouldContainSubstring, `"pitcher_metric": "whip"`)
		})

		convey.Convey("When a trade is simulated", func() {
			out, err := runCLI(t, "simulate", "--trade", "Max Fried|New York Yankees|Colorado Rockies|SP")
			convey.So(err, convey.ShouldBeNil)

			var res struct {
				Messages []string `json:"transaction_messages"`
			}
			convey.So(json.Unmarshal([]byte(out), &res), convey.ShouldBeNil)
			convey.So(res.Messages, convey.ShouldResemble, []string{"Traded Max Fried from New York Yankees to Colorado Rockies"})
		})

		convey.Convey("When a matchup is run", func() {
			out, err := runCLI(t, "matchup", "Los Angeles Dodgers", "Colorado Rockies", "--method", "Elo")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"team_A_name": "Los Angeles Dodgers"`)
		})

		convey.Convey("When the season is projected", func() {
			out, err := runCLI(t, "project", "--simulations", "20")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"simulations": 20`)
		})

		convey.Convey("When the cache is warmed", func() {
			out, err := runCLI(t, "cache", "warm")
			convey.So(err, convey.ShouldBeNil)

			var infos []cache.Info
			convey.So(json.Unmarshal([]byte(out), &infos), convey.ShouldBeNil)
			convey.So(infos, convey.ShouldHaveLength, 1)
			convey.So(infos[0].IsCached, convey.ShouldBeTrue)
			convey.So(infos[0].TeamCount, convey.ShouldEqual, 4)
		})

		convey.Convey("When the cache status is asked for", func() {
			out, err := runCLI(t, "cache", "status")
			convey.So(err, convey.ShouldBeNil)

			var info cache.Info
			convey.So(json.Unmarshal([]byte(out), &info), convey.ShouldBeNil)
			convey.So(info.Season, convey.ShouldEqual, 2025)
			convey.So(info.IsCached, convey.ShouldBeTrue)
			convey.So(info.TeamCount, convey.ShouldEqual, 4)
			convey.So(info.PlayerCount, convey.ShouldEqual, 8)
		})

		convey.Convey("When the cache status is asked for without loading", func() {
			out, err := runCLI(t, "cache", "status", "--load=false")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"is_cached": false`)
		})

		convey.Convey("When the default season is left to the data source", func() {
			t.Setenv("MLBSIM_DEFAULT_SEASON", "0")
			out, err := runCLI(t, "cache", "status")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, `"season": 2026`)
			convey.So(out, convey.ShouldContainSubstring, `"cached_teams": 1`)
		})

		convey.Convey("When the metric is unknown", func() {
			_, err := runCLI(t, "rank", "--hitter", "era")
			convey.So(errors.Is(err, metric.ErrUnknownMetric), convey.ShouldBeTrue)
		})

		convey.Convey("When the config is invalid", func() {
			t.Setenv("MLBSIM_DEFAULT_SEASON", "-1")
			_, err := runCLI(t, "rank")
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
