package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/at-ishikawa/certprep/internal/inference"
	"github.com/at-ishikawa/certprep/internal/report"
)

var boldMarker = color.New(color.Bold)

// renderInlineMarkdown converts **bold** spans to terminal bold.
func renderInlineMarkdown(text string) string {
	var builder strings.Builder
	for {
		start := strings.Index(text, "**")
		if start < 0 {
			break
		}
		end := strings.Index(text[start+2:], "**")
		if end < 0 {
			break
		}
		builder.WriteString(text[:start])
		builder.WriteString(boldMarker.Sprint(text[start+2 : start+2+end]))
		text = text[start+2+end+2:]
	}
	builder.WriteString(text)
	return builder.String()
}

// RenderPlan writes a study plan for the terminal.
func RenderPlan(w io.Writer, plan *inference.StudyPlan) {
	_, _ = boldMarker.Fprintln(w, "Strategy")
	fmt.Fprintf(w, "%s\n\n", renderInlineMarkdown(plan.Strategy))

	for _, week := range plan.WeeklyBreakdown {
		_, _ = boldMarker.Fprintf(w, "Week %d: %s\n", week.Week, week.Topic)
		fmt.Fprintf(w, "Focus: %s\n", renderInlineMarkdown(week.FocusArea))
		for i, task := range week.DailyTasks {
			fmt.Fprintf(w, "  Day %d: %s\n", i+1, renderInlineMarkdown(task))
		}
		fmt.Fprintln(w)
	}

	if len(plan.Tips) > 0 {
		_, _ = boldMarker.Fprintln(w, "Tips")
		for _, tip := range plan.Tips {
			fmt.Fprintf(w, "  - %s\n", renderInlineMarkdown(tip))
		}
	}
}

// PlanMarkdown renders a study plan as a markdown document, used for the
// PDF export.
func PlanMarkdown(plan *inference.StudyPlan) string {
	var builder strings.Builder
	builder.WriteString("# CFA Level 1 Study Plan\n\n")
	builder.WriteString("## Strategy\n\n")
	builder.WriteString(plan.Strategy)
	builder.WriteString("\n")

	for _, week := range plan.WeeklyBreakdown {
		builder.WriteString(fmt.Sprintf("\n## Week %d: %s\n\n", week.Week, week.Topic))
		builder.WriteString(fmt.Sprintf("Focus: %s\n\n", week.FocusArea))
		for i, task := range week.DailyTasks {
			builder.WriteString(fmt.Sprintf("- Day %d: %s\n", i+1, task))
		}
	}

	if len(plan.Tips) > 0 {
		builder.WriteString("\n## Tips\n\n")
		for _, tip := range plan.Tips {
			builder.WriteString(fmt.Sprintf("- %s\n", tip))
		}
	}
	return builder.String()
}

// RenderDashboard writes the progress dashboard for the terminal.
func RenderDashboard(w io.Writer, dashboard report.Dashboard) {
	_, _ = boldMarker.Fprintln(w, "Progress")
	fmt.Fprintf(w, "Overall mastery: %d%%\n", dashboard.OverallMastery)
	fmt.Fprintf(w, "Hours studied:   %.2f\n", dashboard.OverallHours)
	fmt.Fprintf(w, "Days remaining:  %d\n", dashboard.DaysRemaining)
	fmt.Fprintf(w, "Exam date:       %s (registration closes %s)\n\n",
		dashboard.Exam.TargetDate, dashboard.Exam.StandardDeadline)

	_, _ = boldMarker.Fprintln(w, "Categories")
	for _, category := range dashboard.Categories {
		fmt.Fprintf(w, "  %-22s %3d%% (%d topics)\n", category.Category, category.Mastery, category.Topics)
	}
	fmt.Fprintln(w)

	_, _ = boldMarker.Fprintln(w, "Topics")
	for _, topic := range dashboard.Topics {
		fmt.Fprintf(w, "  %-38s %3d%% %s %6.2fh / %dh\n",
			topic.Name, topic.Mastery, progressBar(topic.Mastery), topic.LoggedHours, topic.EstimatedHours)
	}
}

// progressBar draws a ten-segment bar for a percentage.
func progressBar(percent int) string {
	filled := percent / 10
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", 10-filled) + "]"
}
