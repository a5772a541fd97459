package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/mlbsim/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// PercentageMultiplier converts ratios to percentages.
const PercentageMultiplier = 100

// Run executes the complete probe and returns the run statistics. It fails
// with ErrInvariantViolated when any response breaks an invariant.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting simulation probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("scenarios", config.Scenarios),
		logger.Int("tradesPerScenario", config.TradesPer),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if _, err := client.Get(ctx, "/healthz"); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	// Step 2: Base ranking
	base, err := fetchRanking(ctx, client, config)
	if err != nil {
		return stats, fmt.Errorf("base ranking: %w", err)
	}
	teams := len(base.Teams())
	if v := verifyRanking(base, teams); len(v) > 0 {
		return stats, fmt.Errorf("%w: base ranking: %v", ErrInvariantViolated, v)
	}

	// Step 3: Rosters and scenarios
	rosters, err := fetchRosters(ctx, client, config, base.Teams())
	if err != nil {
		return stats, err
	}
	scenarios, err := generateScenarios(config, rosters, newRand(config.Seed))
	if err != nil {
		return stats, fmt.Errorf("scenario generation failed: %w", err)
	}
	stats.ScenariosGenerated = len(scenarios)
	if config.OutputFile != "" {
		if err := saveScenarios(config.OutputFile, scenarios); err != nil {
			log.Warn(ctx, "failed to save scenarios", logger.Error(err))
		}
	}

	// Step 4: Post scenarios concurrently
	violations := postScenarios(ctx, client, config, scenarios, teams, stats)
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	// Step 5: The base ranking must be unchanged
	after, err := fetchRanking(ctx, client, config)
	if err != nil {
		return stats, fmt.Errorf("base ranking after simulations: %w", err)
	}
	if v := compareRankings(base, after); len(v) > 0 {
		violations = append(violations, v...)
		log.Error(ctx, "base ranking changed after simulations", logger.Any("differences", v))
	}
	stats.Violations = len(violations)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if stats.Violations > 0 || stats.ScenariosFailed > 0 {
		return stats, fmt.Errorf("%w: %d violations, %d failed scenarios", ErrInvariantViolated, stats.Violations, stats.ScenariosFailed)
	}
	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

func fetchRanking(ctx context.Context, c *HTTPClient, config *Config) (Ranking, error) {
	req := map[string]any{
		"hitter_metric":  config.HitterMetric,
		"pitcher_metric": config.PitcherMetric,
		"details":        true,
	}
	if config.Season > 0 {
		req["season"] = config.Season
	}
	var r Ranking
	err := c.PostJSON(ctx, "/api/ranking", req, &r)
	return r, err
}

// postScenarios sends every scenario and returns the invariant violations.
// HTTP failures count as failed scenarios.
func postScenarios(ctx context.Context, c *HTTPClient, config *Config, scenarios []Scenario, teams int, stats *Stats) []string {
	var (
		mu         sync.Mutex
		violations []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Workers, 1))

	for _, s := range scenarios {
		g.Go(func() error {
			req := map[string]any{
				"hitter_metric":  config.HitterMetric,
				"pitcher_metric": config.PitcherMetric,
				"details":        true,
				"transactions":   s.Transactions,
			}
			if config.Season > 0 {
				req["season"] = config.Season
			}
			var res SimulationResponse
			err := c.PostJSON(gctx, "/api/simulation/ranking", req, &res)

			mu.Lock()
			defer mu.Unlock()
			stats.ScenariosPosted++
			if err != nil {
				stats.ScenariosFailed++
				if config.Verbose {
					logger.Get().Warn(gctx, "scenario failed", logger.String("scenario", s.ID), logger.Error(err))
				}
				return nil
			}
			v := verifySimulation(res, s, teams)
			if len(v) == 0 {
				stats.ScenariosPassed++
				return nil
			}
			stats.ScenariosFailed++
			for _, reason := range v {
				violations = append(violations, s.ID+": "+reason)
			}
			logger.Get().Error(gctx, "scenario broke an invariant", logger.String("scenario", s.ID), logger.Any("violations", v))
			return nil
		})
	}
	_ = g.Wait()
	return violations
}

// saveScenarios writes the scenarios as a JSON array.
func saveScenarios(filename string, scenarios []Scenario) error {
	if len(scenarios) == 0 {
		return errors.New("no scenarios to save")
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(scenarios, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenarios: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write scenarios: %w", err)
	}
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var passRate, perSecond float64
	if stats.ScenariosPosted > 0 {
		passRate = float64(stats.ScenariosPassed) / float64(stats.ScenariosPosted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.ScenariosPosted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("scenariosGenerated", stats.ScenariosGenerated),
		logger.Int("scenariosPosted", stats.ScenariosPosted),
		logger.Int("scenariosPassed", stats.ScenariosPassed),
		logger.Int("scenariosFailed", stats.ScenariosFailed),
		logger.Int("violations", stats.Violations),
		logger.Duration("duration", stats.Duration),
		logger.Float64("passRate", passRate),
		logger.Float64("scenariosPerSecond", perSecond))
}
