// Package report derives the read-only dashboard numbers from the
// candidate state: overall and per-category mastery, the exam countdown,
// and the per-topic chart series.
package report

import (
	"math"
	"time"

	"github.com/at-ishikawa/certprep/internal/catalog"
	"github.com/at-ishikawa/certprep/internal/state"
)

// TopicSeries is one chart row: a topic with its mastery and logged
// hours against the estimate.
type TopicSeries struct {
	TopicID        string  `json:"topic_id"`
	Name           string  `json:"name"`
	Mastery        int     `json:"mastery"`
	LoggedHours    float64 `json:"logged_hours"`
	EstimatedHours int     `json:"estimated_hours"`
}

// CategorySummary is the aggregated mastery of one curriculum category.
type CategorySummary struct {
	Category catalog.Category `json:"category"`
	Mastery  int              `json:"mastery"`
	Topics   int              `json:"topics"`
}

// ExamInfo is the target exam window with its registration deadlines,
// straight from the catalog.
type ExamInfo struct {
	TargetDate        string `json:"target_date"`
	EarlyBirdDeadline string `json:"early_bird_deadline"`
	StandardDeadline  string `json:"standard_deadline"`
}

// Dashboard is everything the progress view needs in one shot.
type Dashboard struct {
	OverallMastery int               `json:"overall_mastery"`
	OverallHours   float64           `json:"overall_hours"`
	DaysRemaining  int               `json:"days_remaining"`
	Exam           ExamInfo          `json:"exam"`
	Categories     []CategorySummary `json:"categories"`
	Topics         []TopicSeries     `json:"topics"`
}

// OverallMastery is the mean of the per-topic percentages across topics,
// rounded to the nearest integer. No topics means 0.
func OverallMastery(topics []catalog.Topic, progress map[string]int) int {
	if len(topics) == 0 {
		return 0
	}
	var sum int
	for _, topic := range topics {
		sum += progress[topic.ID]
	}
	return int(math.Round(float64(sum) / float64(len(topics))))
}

// DaysRemaining counts whole days from now until the exam date, both
// normalized to midnight. A past or same-day exam yields 0.
func DaysRemaining(now, examDate time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	exam := time.Date(examDate.Year(), examDate.Month(), examDate.Day(), 0, 0, 0, 0, now.Location())

	days := int(math.Ceil(exam.Sub(today).Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// Build assembles the dashboard for the current state.
func Build(cat *catalog.Catalog, userState *state.UserState, now, examDate time.Time) Dashboard {
	categories := make([]CategorySummary, 0, len(catalog.Categories()))
	for _, category := range catalog.Categories() {
		topics := cat.TopicsInCategory(category)
		categories = append(categories, CategorySummary{
			Category: category,
			Mastery:  OverallMastery(topics, userState.TopicProgress),
			Topics:   len(topics),
		})
	}

	series := make([]TopicSeries, 0, len(cat.Topics))
	for _, topic := range cat.Topics {
		series = append(series, TopicSeries{
			TopicID:        topic.ID,
			Name:           topic.Name,
			Mastery:        userState.TopicProgress[topic.ID],
			LoggedHours:    userState.TopicHours(topic.ID),
			EstimatedHours: topic.EstimatedHours,
		})
	}

	return Dashboard{
		OverallMastery: OverallMastery(cat.Topics, userState.TopicProgress),
		OverallHours:   userState.OverallHours,
		DaysRemaining:  DaysRemaining(now, examDate),
		Exam: ExamInfo{
			TargetDate:        cat.Exam.TargetDate,
			EarlyBirdDeadline: cat.Exam.Deadlines.EarlyBird,
			StandardDeadline:  cat.Exam.Deadlines.Standard,
		},
		Categories: categories,
		Topics:     series,
	}
}
