package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/certprep/internal/stopwatch"
)

func newSessionCommand() *cobra.Command {
	sessionCommand := &cobra.Command{
		Use:   "session",
		Short: "Log and review study sessions",
	}

	sessionCommand.AddCommand(newSessionLogCommand())
	sessionCommand.AddCommand(newSessionHistoryCommand())
	sessionCommand.AddCommand(newSessionTimerCommand())

	return sessionCommand
}

func newSessionLogCommand() *cobra.Command {
	var date string
	var notes string

	command := &cobra.Command{
		Use:   "log [topic] [hours]",
		Short: "Log a study session manually",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hours, err := strconv.ParseFloat(args[1], 64)
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

			session, err := reducer.AddSession(ctx, args[0], date, hours, notes)
			if err != nil {
				return err
			}
			fmt.Printf("Logged %.2fh on %s (%s). Total: %.2fh.\n",
				session.HoursSpent, args[0], session.Date, reducer.Snapshot().OverallHours)
			return nil
		},
	}

	command.Flags().StringVar(&date, "date", time.Now().Format(time.DateOnly), "session date (YYYY-MM-DD)")
	command.Flags().StringVar(&notes, "notes", "", "what you worked on")
	return command
}

func newSessionHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history [topic]",
		Short: "Show logged sessions, newest first",
		Args:  cobra.MaximumNArgs(1),
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

			topicIDs := cat.TopicIDs()
			if len(args) == 1 {
				if _, ok := cat.Topic(args[0]); !ok {
					return fmt.Errorf("unknown topic: %s", args[0])
				}
				topicIDs = []string{args[0]}
			}

			snapshot := reducer.Snapshot()
			var total int
			out := cmd.OutOrStdout()
			for _, topicID := range topicIDs {
				sessions := snapshot.Sessions[topicID]
				for i := len(sessions) - 1; i >= 0; i-- {
					session := sessions[i]
					fmt.Fprintf(out, "%s  %-8s %6.2fh  %s\n",
						session.Date, topicID, session.HoursSpent, session.Notes)
					total++
				}
			}
			if total == 0 {
				fmt.Fprintln(out, "No sessions logged yet.")
			}
			return nil
		},
	}
}

func newSessionTimerCommand() *cobra.Command {
	var notes string

	command := &cobra.Command{
		Use:   "timer [topic]",
		Short: "Time a study session and log it when you stop",
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

			topicID := args[0]
			if _, ok := cat.Topic(topicID); !ok {
				return fmt.Errorf("unknown topic: %s", topicID)
			}

			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			watch := stopwatch.New()
			defer watch.Close()
			watch.Start()
			fmt.Fprintf(out, "Timer started for %s. Press enter to stop.\n", topicID)

			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			done := make(chan struct{})
			go func() {
				defer close(done)
				_, _ = reader.ReadString('\n')
			}()

		LOOP:
			for {
				select {
				case <-done:
					break LOOP
				case <-ctx.Done():
					fmt.Fprintln(out, "\nInterrupted, nothing logged.")
					return nil
				case <-ticker.C:
					elapsed := watch.Elapsed().Round(time.Second)
					fmt.Fprintf(out, "\r%02d:%02d:%02d ",
						int(elapsed.Hours()), int(elapsed.Minutes())%60, int(elapsed.Seconds())%60)
				}
			}
			fmt.Fprintln(out)

			hours, ok := watch.Stop()
			if !ok {
				fmt.Fprintln(out, "Nothing to log: no time elapsed.")
				return nil
			}

			// The measured session is only a candidate until confirmed.
			date := time.Now().Format(time.DateOnly)
			fmt.Fprintf(out, "Log %.2fh on %s for %s? [Y/n] ", hours, topicID, date)
			answer, readErr := reader.ReadString('\n')
			if readErr != nil && !errors.Is(readErr, io.EOF) {
				return fmt.Errorf("error reading input: %w", readErr)
			}
			if strings.HasPrefix(strings.ToLower(strings.TrimSpace(answer)), "n") {
				fmt.Fprintln(out, "Discarded.")
				return nil
			}

			session, err := reducer.AddSession(ctx, topicID, date, hours, notes)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Logged %.2fh on %s. Total: %.2fh.\n",
				session.HoursSpent, topicID, reducer.Snapshot().OverallHours)
			return nil
		},
	}

	command.Flags().StringVar(&notes, "notes", "", "what you worked on")
	return command
}
