package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newNoteCommand() *cobra.Command {
	noteCommand := &cobra.Command{
		Use:   "note",
		Short: "Manage per-topic review notes",
	}

	noteCommand.AddCommand(&cobra.Command{
		Use:   "set [topic] [text...]",
		Short: "Replace the review note of a topic (no text clears it)",
		Args:  cobra.MinimumNArgs(1),
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

			note := strings.Join(args[1:], " ")
			if err := reducer.SetReviewNote(ctx, args[0], note); err != nil {
				return err
			}
			if note == "" {
				fmt.Printf("Cleared the note for %s.\n", args[0])
			} else {
				fmt.Printf("Saved the note for %s.\n", args[0])
			}
			return nil
		},
	})

	noteCommand.AddCommand(&cobra.Command{
		Use:   "show [topic]",
		Short: "Show the review note of a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			ctx := cmd.Context()
			cat, store, reducer, err := openReducer(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = store.Close()
			}()

			if _, ok := cat.Topic(args[0]); !ok {
				return fmt.Errorf("unknown topic: %s", args[0])
			}

			note, ok := reducer.Snapshot().ReviewNotes[args[0]]
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No note for %s.\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), note)
			return nil
		},
	})

	return noteCommand
}
