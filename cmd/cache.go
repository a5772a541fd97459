package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/mlbsim/internal/adapters/cache"
)

func newCacheCommand(env *runtimeEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and warm the roster cache",
		Long: `Inspect and warm the roster cache of this process.

The cache lives in memory, so these commands mostly serve to check that a
season loads. To drop the cache of a running server send it SIGHUP.`,
	}
	cmd.AddCommand(newCacheStatusCommand(env))
	cmd.AddCommand(newCacheWarmCommand(env))
	return cmd
}

func newCacheStatusCommand(env *runtimeEnv) *cobra.Command {
	var (
		season int
		load   bool
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the cache entry of a season",
		Long: `Print the cache entry of a season.

The cache starts empty in every process, so the season is loaded first and
the entry reflects what a request would be served. With --load=false the
report is taken on the cold cache and always shows is_cached false.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, stop, err := startService(cmd.Context(), env.cfg)
			if err != nil {
				return err
			}
			defer stop()

			if season == 0 {
				season = svc.DefaultSeason()
			}
			if load {
				if err := svc.Warm(cmd.Context(), season); err != nil {
					return err
				}
			}
			info, err := svc.CacheInfo(season)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().IntVar(&season, "season", 0, "Season (default from config)")
	cmd.Flags().BoolVar(&load, "load", true, "Load the season before reporting")
	return cmd
}

func newCacheWarmCommand(env *runtimeEnv) *cobra.Command {
	var seasons []int
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Load seasons and print their cache entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, stop, err := startService(cmd.Context(), env.cfg)
			if err != nil {
				return err
			}
			defer stop()

			if len(seasons) == 0 {
				seasons = []int{svc.DefaultSeason()}
			}
			if err := svc.Warm(cmd.Context(), seasons...); err != nil {
				return err
			}
			infos := make([]cache.Info, 0, len(seasons))
			for _, s := range seasons {
				info, err := svc.CacheInfo(s)
				if err != nil {
					return err
				}
				infos = append(infos, info)
			}
			return printJSON(cmd.OutOrStdout(), infos)
		},
	}
	cmd.Flags().IntSliceVar(&seasons, "season", nil, "Seasons to warm (repeatable; default from config)")
	return cmd
}
