package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/certprep/internal/catalog"
)

type SortFlag catalog.SortOption

// Set implements pflag.Value.
func (s *SortFlag) Set(v string) error {
	switch catalog.SortOption(v) {
	case catalog.SortByName, catalog.SortByDifficulty, catalog.SortByWeight, catalog.SortByEstimated:
		*s = SortFlag(v)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q, %q, %q or %q",
			v, catalog.SortByName, catalog.SortByDifficulty, catalog.SortByWeight, catalog.SortByEstimated)
	}
	return nil
}

// String implements pflag.Value.
func (s *SortFlag) String() string {
	if s == nil {
		return ""
	}
	return string(*s)
}

// Type implements pflag.Value.
func (s *SortFlag) Type() string {
	return "SortFlag"
}

type FilterFlag string

// Set implements pflag.Value.
func (f *FilterFlag) Set(v string) error {
	switch v {
	case catalog.FilterAll,
		string(catalog.DifficultyHigh),
		string(catalog.DifficultyMedium),
		string(catalog.DifficultyLow):
		*f = FilterFlag(v)
	default:
		return fmt.Errorf("invalid value %q, valid values are %q, %q, %q or %q",
			v, catalog.FilterAll, catalog.DifficultyHigh, catalog.DifficultyMedium, catalog.DifficultyLow)
	}
	return nil
}

// String implements pflag.Value.
func (f *FilterFlag) String() string {
	if f == nil {
		return ""
	}
	return string(*f)
}

// Type implements pflag.Value.
func (f *FilterFlag) Type() string {
	return "FilterFlag"
}

var (
	_ pflag.Value = (*SortFlag)(nil)
	_ pflag.Value = (*FilterFlag)(nil)
)

func newTopicsCommand() *cobra.Command {
	var sortBy SortFlag
	filter := FilterFlag(catalog.FilterAll)

	command := &cobra.Command{
		Use:   "topics",
		Short: "List the syllabus topics with your progress",
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

			topics := catalog.FilterTopics(cat.Topics, string(filter))
			topics = catalog.SortTopics(topics, catalog.SortOption(sortBy))
			if len(topics) == 0 {
				fmt.Printf("No topics with difficulty %q.\n", filter)
				return nil
			}

			snapshot := reducer.Snapshot()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-8s %-38s %-10s %-9s %8s %9s\n",
				"ID", "NAME", "DIFFICULTY", "WEIGHT", "MASTERY", "HOURS")
			for _, topic := range topics {
				fmt.Fprintf(out, "%-8s %-38s %-10s %3d-%-3d%% %7d%% %8.2fh\n",
					topic.ID, topic.Name, topic.Difficulty,
					topic.WeightMin, topic.WeightMax,
					snapshot.TopicProgress[topic.ID], snapshot.TopicHours(topic.ID))
			}
			return nil
		},
	}

	flags := command.Flags()
	flags.Var(&sortBy, "sort", "Sort order for the listing. Options: name, difficulty, weight, estimated")
	flags.Var(&filter, "filter", "Difficulty filter. Options: All, High, Medium, Low")
	return command
}
