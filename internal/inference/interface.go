package inference

import (
	"context"
	"errors"
)

//go:generate mockgen -source=interface.go -destination=../mocks/inference/mock_client.go -package=mock_inference

// Client interface defines the methods for AI inference operations
type Client interface {
	GenerateStudyPlan(ctx context.Context, params GenerateStudyPlanRequest) (StudyPlan, error)
	ExplainConcept(ctx context.Context, params ExplainConceptRequest) (string, error)
}

// TopicProfile is the per-topic context handed to the model when asking
// for a study plan.
type TopicProfile struct {
	Name           string `json:"name"`
	Difficulty     string `json:"difficulty"`
	WeightMin      int    `json:"weight_min"`
	WeightMax      int    `json:"weight_max"`
	EstimatedHours int    `json:"estimated_hours"`
}

// GenerateStudyPlanRequest holds the candidate profile for a plan request
type GenerateStudyPlanRequest struct {
	ExamDate      string         `json:"exam_date"`
	HoursPerWeek  int            `json:"hours_per_week"`
	HasBackground bool           `json:"has_background"`
	Topics        []TopicProfile `json:"topics"`
}

// ExplainConceptRequest asks for a short explanation of a concept within
// one curriculum topic.
type ExplainConceptRequest struct {
	TopicName string `json:"topic_name"`
	Query     string `json:"query"`
}

// StudyPlan is the structured plan returned by the model. The JSON tags
// are the persisted wire format, so renaming them breaks stored state.
type StudyPlan struct {
	Strategy        string     `json:"strategy"`
	WeeklyBreakdown []WeekPlan `json:"weeklyBreakdown"`
	Tips            []string   `json:"tips"`
}

// WeekPlan is one week of the plan.
type WeekPlan struct {
	Week       int      `json:"week"`
	Topic      string   `json:"topic"`
	FocusArea  string   `json:"focusArea"`
	DailyTasks []string `json:"dailyTasks"`
}

// ErrEmptyPlan marks a plan with no weekly breakdown. Such plans are
// never saved.
var ErrEmptyPlan = errors.New("study plan has no weekly breakdown")

// Validate reports whether the plan is usable.
func (p StudyPlan) Validate() error {
	if len(p.WeeklyBreakdown) == 0 {
		return ErrEmptyPlan
	}
	return nil
}

const (
	DefaultMaxRetryAttempts = 3

	// PlanWeeks and PlanDailyTasks are what the model is asked to
	// produce. Responses with a different shape are still accepted as
	// long as the breakdown is non-empty.
	PlanWeeks      = 8
	PlanDailyTasks = 7
)
