// Package state owns the candidate's mutable study record: per-topic
// mastery, logged sessions, the overall hour counter, review notes, and
// the saved study plan. The whole record is persisted as one JSON blob
// after every accepted mutation.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/at-ishikawa/certprep/internal/inference"
)

// Session is one logged study session for a topic.
type Session struct {
	ID         string  `json:"id"`
	TopicID    string  `json:"topicId"`
	Date       string  `json:"date"`
	HoursSpent float64 `json:"hoursSpent"`
	Notes      string  `json:"notes,omitempty"`
}

// UserState is the full persisted study record. Fields the current build
// does not know about survive a load/save cycle untouched.
type UserState struct {
	TopicProgress map[string]int       `json:"topicProgress"`
	OverallHours  float64              `json:"overallHours"`
	Sessions      map[string][]Session `json:"sessions"`
	ReviewNotes   map[string]string    `json:"reviewNotes"`
	SavedPlan     *inference.StudyPlan `json:"savedPlan"`

	extra map[string]json.RawMessage
}

// ErrCorruptState marks a persisted blob that is not a JSON object at
// all. Such a blob is never silently replaced.
var ErrCorruptState = errors.New("persisted state is not a JSON object")

var knownFields = map[string]bool{
	"topicProgress": true,
	"overallHours":  true,
	"sessions":      true,
	"reviewNotes":   true,
	"savedPlan":     true,
}

// NewUserState returns the zero-progress record covering topicIDs.
func NewUserState(topicIDs []string) *UserState {
	progress := make(map[string]int, len(topicIDs))
	sessions := make(map[string][]Session, len(topicIDs))
	for _, id := range topicIDs {
		progress[id] = 0
		sessions[id] = nil
	}
	return &UserState{
		TopicProgress: progress,
		Sessions:      sessions,
		ReviewNotes:   map[string]string{},
	}
}

// Decode merges a persisted blob onto the zero-progress record for
// topicIDs. Known fields whose shape no longer matches fall back to
// their defaults; topics missing from the blob get zero entries; fields
// this build does not know are retained for the next Encode.
func Decode(raw []byte, topicIDs []string) (*UserState, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	state := NewUserState(topicIDs)

	if raw, ok := doc["topicProgress"]; ok {
		var progress map[string]int
		if err := json.Unmarshal(raw, &progress); err == nil {
			for id, value := range progress {
				state.TopicProgress[id] = clampProgress(value)
			}
		}
	}
	if raw, ok := doc["overallHours"]; ok {
		var hours float64
		if err := json.Unmarshal(raw, &hours); err == nil {
			state.OverallHours = hours
		}
	}
	if raw, ok := doc["sessions"]; ok {
		var sessions map[string][]Session
		if err := json.Unmarshal(raw, &sessions); err == nil {
			for id, list := range sessions {
				state.Sessions[id] = list
			}
		}
	}
	if raw, ok := doc["reviewNotes"]; ok {
		var notes map[string]string
		if err := json.Unmarshal(raw, &notes); err == nil {
			for id, note := range notes {
				state.ReviewNotes[id] = note
			}
		}
	}
	if raw, ok := doc["savedPlan"]; ok {
		var plan *inference.StudyPlan
		if err := json.Unmarshal(raw, &plan); err == nil && plan != nil && plan.Validate() == nil {
			state.SavedPlan = plan
		}
	}

	for key, value := range doc {
		if knownFields[key] {
			continue
		}
		if state.extra == nil {
			state.extra = map[string]json.RawMessage{}
		}
		state.extra[key] = value
	}

	return state, nil
}

// Encode serializes the record, including any retained unknown fields.
func (s *UserState) Encode() ([]byte, error) {
	doc := make(map[string]any, len(knownFields)+len(s.extra))
	for key, value := range s.extra {
		doc[key] = value
	}
	doc["topicProgress"] = s.TopicProgress
	doc["overallHours"] = s.OverallHours
	doc["sessions"] = s.Sessions
	doc["reviewNotes"] = s.ReviewNotes
	doc["savedPlan"] = s.SavedPlan

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(state) > %w", err)
	}
	return raw, nil
}

// Clone returns a deep copy safe to hand to readers while the original
// keeps mutating.
func (s *UserState) Clone() *UserState {
	clone := &UserState{
		TopicProgress: make(map[string]int, len(s.TopicProgress)),
		OverallHours:  s.OverallHours,
		Sessions:      make(map[string][]Session, len(s.Sessions)),
		ReviewNotes:   make(map[string]string, len(s.ReviewNotes)),
		extra:         s.extra,
	}
	for id, value := range s.TopicProgress {
		clone.TopicProgress[id] = value
	}
	for id, list := range s.Sessions {
		clone.Sessions[id] = append([]Session(nil), list...)
	}
	for id, note := range s.ReviewNotes {
		clone.ReviewNotes[id] = note
	}
	if s.SavedPlan != nil {
		plan := *s.SavedPlan
		plan.WeeklyBreakdown = append([]inference.WeekPlan(nil), s.SavedPlan.WeeklyBreakdown...)
		plan.Tips = append([]string(nil), s.SavedPlan.Tips...)
		clone.SavedPlan = &plan
	}
	return clone
}

// TopicHours sums the logged session hours for one topic.
func (s *UserState) TopicHours(topicID string) float64 {
	var total float64
	for _, session := range s.Sessions[topicID] {
		total += session.HoursSpent
	}
	return total
}

func clampProgress(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}

// roundHours keeps the hour counters at two decimal places, matching how
// timed sessions are converted from seconds.
func roundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}
