// go build +integration
package openai_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certprep/internal/inference"
	"github.com/at-ishikawa/certprep/internal/inference/openai"
)

// This test requires OPENAI_API_KEY environment variable to be set
// Run with: OPENAI_API_KEY=your-key go test -v ./internal/inference/openai -run TestClient_GenerateStudyPlan_Live
func TestClient_GenerateStudyPlan_Live(t *testing.T) {
	t.Parallel()

	slog.SetDefault(
		slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level:     slog.LevelDebug,
			AddSource: true,
		})),
	)

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("OPENAI_API_KEY environment variable not set, skipping integration test")
	}

	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	client := openai.NewClient(apiKey, model, inference.DefaultMaxRetryAttempts)
	t.Cleanup(func() {
		require.NoError(t, client.Close())
	})

	plan, err := client.GenerateStudyPlan(context.Background(), inference.GenerateStudyPlanRequest{
		ExamDate:      "2026-11-17",
		HoursPerWeek:  15,
		HasBackground: false,
		Topics: []inference.TopicProfile{
			{Name: "Ethical and Professional Standards", Difficulty: "Medium", WeightMin: 15, WeightMax: 20, EstimatedHours: 45},
			{Name: "Quantitative Methods", Difficulty: "High", WeightMin: 6, WeightMax: 9, EstimatedHours: 50},
			{Name: "Financial Statement Analysis", Difficulty: "High", WeightMin: 11, WeightMax: 14, EstimatedHours: 60},
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, plan.Strategy)
	require.NotEmpty(t, plan.WeeklyBreakdown)
	assert.Equal(t, 1, plan.WeeklyBreakdown[0].Week)
	for _, week := range plan.WeeklyBreakdown {
		assert.NotEmpty(t, week.Topic)
		assert.NotEmpty(t, week.DailyTasks)
	}
}
