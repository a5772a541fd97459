package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/mlbsim/internal/probe"
)

// Default configuration constants.
const (
	defaultScenarios = 200
	defaultTradesPer = 2
	defaultWorkers   = 2 // multiplier for runtime.NumCPU()
	defaultTimeout   = 30 * time.Second
	defaultRunLimit  = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		scenarios  = flag.Int("scenarios", defaultScenarios, "Number of trade scenarios to post")
		tradesPer  = flag.Int("trades", defaultTradesPer, "Trades per scenario")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		season     = flag.Int("season", 0, "Season to probe (default: server default)")
		hitter     = flag.String("hitter", "ops", "Hitting metric")
		pitcher    = flag.String("pitcher", "era", "Pitching metric")
		seed       = flag.Uint64("seed", 0, "Scenario seed (default: time based)")
		outputFile = flag.String("output", "", "Write the generated scenarios to this JSON file")
		logFile    = flag.String("log", "", "Also write logs to this file")
		verbose    = flag.Bool("verbose", false, "Log every failed scenario")
	)
	flag.Parse()

	closeLog, err := probe.SetupLogging(*logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to setup logging:", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunLimit)
	defer cancel()

	config := &probe.Config{
		BaseURL:       *baseURL,
		Scenarios:     *scenarios,
		TradesPer:     *tradesPer,
		Workers:       *workers,
		Timeout:       *timeout,
		Season:        *season,
		HitterMetric:  *hitter,
		PitcherMetric: *pitcher,
		Seed:          *seed,
		OutputFile:    *outputFile,
		Verbose:       *verbose,
	}

	if _, err := probe.Run(ctx, config); err != nil {
		fmt.Fprintln(os.Stderr, "probe failed:", err)
		closeLog()
		os.Exit(1)
	}
}
