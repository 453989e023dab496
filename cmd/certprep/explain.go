package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/certprep/internal/catalog"
	"github.com/at-ishikawa/certprep/internal/inference"
	"github.com/at-ishikawa/certprep/internal/inference/openai"
)

func newExplainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [topic] [question...]",
		Short: "Ask the model to explain a concept within a topic",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if cfg.OpenAI.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable is required")
			}

			cat, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("catalog.Load() > %w", err)
			}
			topic, ok := cat.Topic(args[0])
			if !ok {
				return fmt.Errorf("unknown topic: %s", args[0])
			}

			fmt.Printf("Using OpenAI provider (model: %s)\n", cfg.OpenAI.Model)
			openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, inference.DefaultMaxRetryAttempts)
			defer func() {
				_ = openaiClient.Close()
			}()

			explanation, err := openaiClient.ExplainConcept(cmd.Context(), inference.ExplainConceptRequest{
				TopicName: topic.Name,
				Query:     strings.Join(args[1:], " "),
			})
			if err != nil {
				return fmt.Errorf("openaiClient.ExplainConcept() > %w", err)
			}

			fmt.Println()
			fmt.Println(explanation)
			return nil
		},
	}
}
