package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certprep/internal/catalog"
	"github.com/at-ishikawa/certprep/internal/state"
)

func TestOverallMastery(t *testing.T) {
	topics := []catalog.Topic{{ID: "a"}, {ID: "b"}}

	tests := []struct {
		name     string
		topics   []catalog.Topic
		progress map[string]int
		want     int
	}{
		{name: "no topics", topics: nil, progress: map[string]int{}, want: 0},
		{name: "all zero", topics: topics, progress: map[string]int{"a": 0, "b": 0}, want: 0},
		{name: "all complete", topics: topics, progress: map[string]int{"a": 100, "b": 100}, want: 100},
		{name: "mean rounds to nearest", topics: topics, progress: map[string]int{"a": 10, "b": 100}, want: 55},
		{name: "missing entries count as zero", topics: topics, progress: map[string]int{"a": 50}, want: 25},
		{
			name:     "rounds half up",
			topics:   []catalog.Topic{{ID: "a"}, {ID: "b"}, {ID: "c"}},
			progress: map[string]int{"a": 10, "b": 10, "c": 11},
			want:     10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverallMastery(tt.topics, tt.progress))
		})
	}
}

func TestDaysRemaining(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		exam time.Time
		want int
	}{
		{
			name: "counts whole days ignoring time of day",
			now:  time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC),
			exam: time.Date(2026, 11, 17, 0, 0, 0, 0, time.UTC),
			want: 77,
		},
		{
			name: "same day is zero",
			now:  time.Date(2026, 11, 17, 8, 0, 0, 0, time.UTC),
			exam: time.Date(2026, 11, 17, 0, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "past exam is zero, never negative",
			now:  time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
			exam: time.Date(2026, 11, 17, 0, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "tomorrow is one",
			now:  time.Date(2026, 11, 16, 22, 0, 0, 0, time.UTC),
			exam: time.Date(2026, 11, 17, 0, 0, 0, 0, time.UTC),
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysRemaining(tt.now, tt.exam))
		})
	}
}

func TestBuild(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)

	userState := state.NewUserState(cat.TopicIDs())
	userState.TopicProgress["ethics"] = 80
	userState.OverallHours = 42.5
	userState.Sessions["ethics"] = []state.Session{
		{ID: "1", TopicID: "ethics", Date: "2026-09-01", HoursSpent: 2.5},
	}

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	exam := time.Date(2026, 11, 17, 0, 0, 0, 0, time.UTC)

	dashboard := Build(cat, userState, now, exam)

	assert.Equal(t, 8, dashboard.OverallMastery, "80 across 10 topics")
	assert.Equal(t, 42.5, dashboard.OverallHours)
	assert.Equal(t, 77, dashboard.DaysRemaining)
	assert.Equal(t, "2026-11-17", dashboard.Exam.TargetDate)
	assert.Equal(t, "2026-08-11", dashboard.Exam.StandardDeadline)
	assert.Len(t, dashboard.Topics, len(cat.Topics))
	assert.Len(t, dashboard.Categories, 4)

	for _, row := range dashboard.Topics {
		if row.TopicID != "ethics" {
			continue
		}
		assert.Equal(t, 80, row.Mastery)
		assert.Equal(t, 2.5, row.LoggedHours)
	}

	for _, category := range dashboard.Categories {
		if category.Category != catalog.CategoryEthics {
			continue
		}
		assert.Equal(t, 80, category.Mastery)
		assert.Equal(t, 1, category.Topics)
	}
}
