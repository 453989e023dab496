package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newProgressCommand() *cobra.Command {
	progressCommand := &cobra.Command{
		Use:   "progress",
		Short: "Manage per-topic mastery percentages",
	}

	progressCommand.AddCommand(&cobra.Command{
		Use:   "set [topic] [percent]",
		Short: "Set the mastery percentage of a topic (clamped to 0-100)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("percent must be a number: %w", err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx := cmd.Context()
			_, store, reducer, err := openReducer(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			stored, err := reducer.SetProgress(ctx, args[0], value)
			if err != nil {
				return err
			}
			fmt.Printf("Mastery of %s is now %d%%.\n", args[0], stored)
			return nil
		},
	})

	progressCommand.AddCommand(&cobra.Command{
		Use:   "hours [hours]",
		Short: "Overwrite the overall studied-hours counter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("hours must be a number: %w", err)
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx := cmd.Context()
			_, store, reducer, err := openReducer(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			if err := reducer.SetOverallHours(ctx, hours); err != nil {
				return err
			}
			fmt.Printf("Overall hours set to %.2f.\n", reducer.Snapshot().OverallHours)
			return nil
		},
	})

	return progressCommand
}
