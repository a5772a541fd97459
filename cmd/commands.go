package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/okian/mlbsim/internal/domain/ranking"
	"github.com/okian/mlbsim/internal/domain/simulation"
)

// rankFlags are shared by rank and simulate.
type rankFlags struct {
	hitter  string
	pitcher string
	season  int
	details bool
}

func (f *rankFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.hitter, "hitter", "ops", "Hitting metric")
	cmd.Flags().StringVar(&f.pitcher, "pitcher", "era", "Pitching metric")
	cmd.Flags().IntVar(&f.season, "season", 0, "Season (default from config)")
	cmd.Flags().BoolVar(&f.details, "details", false, "Print raw values and z-scores")
}

func (f *rankFlags) request() simulation.Request {
	return simulation.Request{
		HitterMetric:  f.hitter,
		PitcherMetric: f.pitcher,
		Season:        f.season,
		Details:       f.details,
	}
}

type detailedOutput struct {
	AL            []ranking.Team `json:"AL"`
	NL            []ranking.Team `json:"NL"`
	Season        int            `json:"season"`
	HitterMetric  string         `json:"hitter_metric"`
	PitcherMetric string         `json:"pitcher_metric"`
}

func rankingOutput(out simulation.Outcome) any {
	if !out.Details {
		return out.Ranking.Compact()
	}
	r := out.Ranking.Rounded()
	return detailedOutput{
		AL:            r.AL,
		NL:            r.NL,
		Season:        out.Season,
		HitterMetric:  out.Hitter.Name,
		PitcherMetric: out.Pitcher.Name,
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func newRankCommand(env *runtimeEnv) *cobra.Command {
	var flags rankFlags
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the season by a hitting and a pitching metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, stop, err := startService(cmd.Context(), env.cfg)
			if err != nil {
				return err
			}
			defer stop()

			out, err := svc.Rank(cmd.Context(), flags.request())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rankingOutput(out))
		},
	}
	flags.register(cmd)
	return cmd
}

// tradeFile is the layout accepted by simulate --file. JSON works too.
type tradeFile struct {
	Transactions []struct {
		PlayerName string `yaml:"player_name"`
		Position   string `yaml:"position"`
		FromTeam   string `yaml:"from_team"`
		ToTeam     string `yaml:"to_team"`
	} `yaml:"transactions"`
}

func readTradeFile(path string) ([]simulation.Transaction, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read trade file: %w", err)
	}
	var tf tradeFile
	if err := yaml.Unmarshal(b, &tf); err != nil {
		return nil, fmt.Errorf("parse trade file %s: %w", path, err)
	}
	out := make([]simulation.Transaction, len(tf.Transactions))
	for i, t := range tf.Transactions {
		out[i] = simulation.Transaction{PlayerName: t.PlayerName, Position: t.Position, FromTeam: t.FromTeam, ToTeam: t.ToTeam}
	}
	return out, nil
}

// parseTrade reads "player|from team|to team|position".
func parseTrade(s string) (simulation.Transaction, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 4 {
		return simulation.Transaction{}, fmt.Errorf("trade %q: want player|from|to|position", s)
	}
	t := simulation.Transaction{
		PlayerName: strings.TrimSpace(parts[0]),
		Position:   strings.TrimSpace(parts[3]),
		FromTeam:   strings.TrimSpace(parts[1]),
		ToTeam:     strings.TrimSpace(parts[2]),
	}
	if err := t.Validate(0); err != nil {
		return simulation.Transaction{}, fmt.Errorf("trade %q: %w", s, err)
	}
	return t, nil
}

func newSimulateCommand(env *runtimeEnv) *cobra.Command {
	var (
		flags  rankFlags
		trades []string
		file   string
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Rank the season after hypothetical trades",
		Long: `Apply trades to a private copy of the season and rank the result.

Trades come from repeated --trade "player|from team|to team|position" flags
and/or a YAML or JSON --file with a "transactions" list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var txns []simulation.Transaction
			if file != "" {
				fromFile, err := readTradeFile(file)
				if err != nil {
					return err
				}
				txns = append(txns, fromFile...)
			}
			for _, s := range trades {
				t, err := parseTrade(s)
				if err != nil {
					return err
				}
				txns = append(txns, t)
			}

			svc, stop, err := startService(cmd.Context(), env.cfg)
			if err != nil {
				return err
			}
			defer stop()

			req := flags.request()
			req.Transactions = txns
			out, err := svc.Simulate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				Ranking  any      `json:"ranking"`
				Messages []string `json:"transaction_messages"`
			}{rankingOutput(out), out.Messages})
		},
	}
	flags.register(cmd)
	cmd.Flags().StringArrayVar(&trades, "trade", nil, `Trade as "player|from team|to team|position"`)
	cmd.Flags().StringVar(&file, "file", "", "YAML or JSON file with a transactions list")
	return cmd
}

func newMatchupCommand(env *runtimeEnv) *cobra.Command {
	var (
		method string
		season int
	)
	cmd := &cobra.Command{
		Use:   "matchup TEAM_A TEAM_B",
		Short: "Estimate the head-to-head win probability of two clubs",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, stop, err := startService(cmd.Context(), env.cfg)
			if err != nil {
				return err
			}
			defer stop()

			res, err := svc.Matchup(cmd.Context(), args[0], args[1], method, season)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&method, "method", "Pythagorean", "Rating method: Pythagorean or Elo")
	cmd.Flags().IntVar(&season, "season", 0, "Season (default from config)")
	return cmd
}

func newProjectCommand(env *runtimeEnv) *cobra.Command {
	var (
		method string
		season int
		sims   int
	)
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Project the regular season standings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, stop, err := startService(cmd.Context(), env.cfg)
			if err != nil {
				return err
			}
			defer stop()

			res, err := svc.Project(cmd.Context(), method, season, sims)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVar(&method, "method", "Pythagorean", "Rating method: Pythagorean or Elo")
	cmd.Flags().IntVar(&season, "season", 0, "Season (default from config)")
	cmd.Flags().IntVar(&sims, "simulations", 0, "Simulated seasons (default from config)")
	return cmd
}
