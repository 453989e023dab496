package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/certprep/internal/catalog"
	"github.com/at-ishikawa/certprep/internal/cli"
)

func newPracticeCommand() *cobra.Command {
	practiceCommand := &cobra.Command{
		Use:   "practice",
		Short: "Practice with the question bank and flashcards",
	}

	practiceCommand.AddCommand(newPracticeQuizCommand())
	practiceCommand.AddCommand(newPracticeFlashcardsCommand())

	return practiceCommand
}

func newPracticeQuizCommand() *cobra.Command {
	var topicID string

	command := &cobra.Command{
		Use:   "quiz",
		Short: "Answer multiple-choice questions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("catalog.Load() > %w", err)
			}

			quizCLI, err := cli.NewPracticeQuizCLI(cat, topicID)
			if err != nil {
				return err
			}
			quizCLI.ShuffleQuestions()
			fmt.Printf("Starting quiz with %d questions\n\n", quizCLI.QuestionCount())

			return quizCLI.Run(cmd.Context(), quizCLI)
		},
	}

	command.Flags().StringVar(&topicID, "topic", "", "limit questions to one topic")
	return command
}

func newPracticeFlashcardsCommand() *cobra.Command {
	var topicID string

	command := &cobra.Command{
		Use:   "flashcards",
		Short: "Drill the flashcard deck",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load()
			if err != nil {
				return fmt.Errorf("catalog.Load() > %w", err)
			}

			drillCLI, err := cli.NewFlashcardDrillCLI(cat, topicID)
			if err != nil {
				return err
			}
			drillCLI.ShuffleCards()
			fmt.Printf("Starting drill with %d cards\n\n", drillCLI.CardCount())

			return drillCLI.Run(cmd.Context(), drillCLI)
		},
	}

	command.Flags().StringVar(&topicID, "topic", "", "limit cards to one topic")
	return command
}
