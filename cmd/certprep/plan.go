package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/certprep/internal/cli"
	"github.com/at-ishikawa/certprep/internal/inference"
	"github.com/at-ishikawa/certprep/internal/inference/openai"
	"github.com/at-ishikawa/certprep/internal/pdf"
)

func newPlanCommand() *cobra.Command {
	planCommand := &cobra.Command{
		Use:   "plan",
		Short: "Generate and review your AI study plan",
	}

	planCommand.AddCommand(newPlanGenerateCommand())
	planCommand.AddCommand(newPlanShowCommand())
	planCommand.AddCommand(newPlanExportCommand())

	return planCommand
}

func newPlanGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Ask the model for a fresh study plan and save it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cfg.OpenAI.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable is required")
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

			fmt.Printf("Using OpenAI provider (model: %s)\n", cfg.OpenAI.Model)
			openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, inference.DefaultMaxRetryAttempts)
			defer func() {
				_ = openaiClient.Close()
			}()

			profiles := make([]inference.TopicProfile, 0, len(cat.Topics))
			for _, topic := range cat.Topics {
				profiles = append(profiles, inference.TopicProfile{
					Name:           topic.Name,
					Difficulty:     string(topic.Difficulty),
					WeightMin:      topic.WeightMin,
					WeightMax:      topic.WeightMax,
					EstimatedHours: topic.EstimatedHours,
				})
			}

			fmt.Println("Generating study plan...")
			plan, err := openaiClient.GenerateStudyPlan(ctx, inference.GenerateStudyPlanRequest{
				ExamDate:      settings.ExamDate.Format(time.DateOnly),
				HoursPerWeek:  settings.HoursPerWeek,
				HasBackground: settings.HasBackground,
				Topics:        profiles,
			})
			if err != nil {
				return fmt.Errorf("openaiClient.GenerateStudyPlan() > %w", err)
			}

			if err := reducer.SavePlan(ctx, plan); err != nil {
				return err
			}

			fmt.Println()
			cli.RenderPlan(cmd.OutOrStdout(), &plan)
			return nil
		},
	}
}

func newPlanShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the saved study plan",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			plan := reducer.Snapshot().SavedPlan
			if plan == nil {
				return fmt.Errorf("no study plan generated yet, run 'certprep plan generate' first")
			}
			cli.RenderPlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}
}

func newPlanExportCommand() *cobra.Command {
	var output string

	command := &cobra.Command{
		Use:   "export",
		Short: "Export the saved study plan as a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			plan := reducer.Snapshot().SavedPlan
			if plan == nil {
				return fmt.Errorf("no study plan generated yet, run 'certprep plan generate' first")
			}

			path, err := pdf.WriteMarkdownAsPDF(cli.PlanMarkdown(plan), output)
			if err != nil {
				return fmt.Errorf("pdf.WriteMarkdownAsPDF() > %w", err)
			}
			fmt.Printf("Wrote %s\n", path)
			return nil
		},
	}

	command.Flags().StringVar(&output, "output", "study-plan.pdf", "output PDF path")
	return command
}
