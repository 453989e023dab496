package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFile string
	debugMode  bool
)

func setupLogger(debugMode bool) {
	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}
	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})),
	)
}

func newRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "certprep",
		Short:         "CFA Level 1 study tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(debugMode)
		},
	}

	flags := rootCommand.PersistentFlags()
	flags.StringVar(&configFile, "config", os.Getenv("CERTPREP_CONFIG"), "path to the config file")
	flags.BoolVar(&debugMode, "debug", false, "enable debug logging")

	rootCommand.AddCommand(newTopicsCommand())
	rootCommand.AddCommand(newProgressCommand())
	rootCommand.AddCommand(newSessionCommand())
	rootCommand.AddCommand(newNoteCommand())
	rootCommand.AddCommand(newStatsCommand())
	rootCommand.AddCommand(newPlanCommand())
	rootCommand.AddCommand(newPracticeCommand())
	rootCommand.AddCommand(newExplainCommand())

	return rootCommand
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
