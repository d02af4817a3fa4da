package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	analyticsClient string
	analyticsFormat string
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Print the dashboard snapshot for all tracked sheets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("sheets"); err != nil {
			return err
		}

		env, err := initEnv(ctx, cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		tracked, err := env.Store.List(ctx)
		if err != nil {
			return err
		}
		all, err := env.Loader.LoadAll(ctx, tracked)
		if err != nil {
			return err
		}

		zap.L().Debug("analytics computed",
			zap.Int("sheets", len(tracked)),
			zap.Int("leads", len(all)),
			zap.String("client", analyticsClient),
		)
		return writeOutput(cmd.OutOrStdout(), analyticsFormat, env.Engine.Snapshot(all, analyticsClient))
	},
}

func init() {
	analyticsCmd.Flags().StringVar(&analyticsClient, "client", "", "restrict to one client tag")
	analyticsCmd.Flags().StringVar(&analyticsFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(analyticsCmd)
}
