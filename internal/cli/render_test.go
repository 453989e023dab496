package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certprep/internal/catalog"
	"github.com/at-ishikawa/certprep/internal/inference"
	"github.com/at-ishikawa/certprep/internal/report"
	"github.com/at-ishikawa/certprep/internal/state"
)

func samplePlan() *inference.StudyPlan {
	return &inference.StudyPlan{
		Strategy: "Cover **heavy topics** first.",
		WeeklyBreakdown: []inference.WeekPlan{
			{Week: 1, Topic: "Ethics and Professional Standards", FocusArea: "Code and Standards", DailyTasks: []string{"Read Standard I", "Practice questions"}},
			{Week: 2, Topic: "Quantitative Methods", FocusArea: "Time value of money", DailyTasks: []string{"TVM drills"}},
		},
		Tips: []string{"Do timed mocks"},
	}
}

func TestRenderInlineMarkdown(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "plain text untouched", text: "read chapter 3", want: "read chapter 3"},
		{name: "bold markers removed", text: "focus on **ethics** today", want: "focus on ethics today"},
		{name: "unterminated marker kept", text: "broken **bold", want: "broken **bold"},
		{name: "multiple spans", text: "**a** and **b**", want: "a and b"},
	}

	color.NoColor = true
	defer func() { color.NoColor = false }()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderInlineMarkdown(tt.text))
		})
	}
}

func TestRenderPlan(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	output := &bytes.Buffer{}
	RenderPlan(output, samplePlan())

	got := output.String()
	assert.Contains(t, got, "Strategy")
	assert.Contains(t, got, "Cover heavy topics first.")
	assert.Contains(t, got, "Week 1: Ethics and Professional Standards")
	assert.Contains(t, got, "Day 2: Practice questions")
	assert.Contains(t, got, "- Do timed mocks")
}

func TestPlanMarkdown(t *testing.T) {
	got := PlanMarkdown(samplePlan())

	assert.Contains(t, got, "# CFA Level 1 Study Plan")
	assert.Contains(t, got, "## Week 1: Ethics and Professional Standards")
	assert.Contains(t, got, "- Day 1: Read Standard I")
	assert.Contains(t, got, "## Tips")
	// Markdown keeps the bold markers for the PDF renderer.
	assert.Contains(t, got, "**heavy topics**")
}

func TestRenderDashboard(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	cat, err := catalog.Load()
	require.NoError(t, err)

	userState := state.NewUserState(cat.TopicIDs())
	userState.TopicProgress["ethics"] = 70
	userState.OverallHours = 12.5

	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	exam := time.Date(2026, 11, 17, 0, 0, 0, 0, time.UTC)
	dashboard := report.Build(cat, userState, now, exam)

	output := &bytes.Buffer{}
	RenderDashboard(output, dashboard)

	got := output.String()
	assert.Contains(t, got, "Overall mastery: 7%")
	assert.Contains(t, got, "Hours studied:   12.50")
	assert.Contains(t, got, "Days remaining:  77")
	assert.Contains(t, got, "Exam date:       2026-11-17")
	assert.Contains(t, got, "Ethics and Professional Standards")
	assert.Contains(t, got, "[#######---]")
}
