package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/certprep/internal/cli"
	"github.com/at-ishikawa/certprep/internal/report"
)

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show the progress dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			settings, err := cfg.Study.Settings(time.Now())
			if err != nil {
				return fmt.Errorf("cfg.Study.Settings() > %w", err)
			}

			ctx := cmd.Context()
			cat, store, reducer, err := openReducer(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			dashboard := report.Build(cat, reducer.Snapshot(), time.Now(), settings.ExamDate)
			cli.RenderDashboard(cmd.OutOrStdout(), dashboard)
			return nil
		},
	}
}
