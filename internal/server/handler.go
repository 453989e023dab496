// Package server exposes the study tracker over JSON REST for the web
// frontend. All state mutations go through the reducer; the handlers
// only translate HTTP to reducer and inference calls.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/at-ishikawa/certprep/internal/catalog"
	"github.com/at-ishikawa/certprep/internal/config"
	"github.com/at-ishikawa/certprep/internal/inference"
	"github.com/at-ishikawa/certprep/internal/report"
	"github.com/at-ishikawa/certprep/internal/state"
)

type Handler struct {
	catalog  *catalog.Catalog
	reducer  *state.Reducer
	client   inference.Client
	settings config.StudySettings
	now      func() time.Time

	mu              sync.Mutex
	planInFlight    bool
	explainInFlight bool

	// taskDone tracks per-task checkboxes of the saved plan. It is
	// deliberately not persisted; a new plan resets it.
	taskDone map[string]bool
}

func NewHandler(cat *catalog.Catalog, reducer *state.Reducer, client inference.Client, settings config.StudySettings) *Handler {
	return &Handler{
		catalog:  cat,
		reducer:  reducer,
		client:   client,
		settings: settings,
		now:      time.Now,
		taskDone: map[string]bool{},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeReducerError maps reducer failures to HTTP statuses.
func writeReducerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, state.ErrUnknownTopic):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, state.ErrInvalidHours), errors.Is(err, state.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, inference.ErrEmptyPlan):
		writeError(w, http.StatusUnprocessableEntity, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

type stateResponse struct {
	TopicProgress map[string]int             `json:"topicProgress"`
	OverallHours  float64                    `json:"overallHours"`
	Sessions      map[string][]state.Session `json:"sessions"`
	ReviewNotes   map[string]string          `json:"reviewNotes"`
	SavedPlan     *inference.StudyPlan       `json:"savedPlan"`
}

// GetState returns the full persisted study record.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	snapshot := h.reducer.Snapshot()
	writeJSON(w, http.StatusOK, stateResponse{
		TopicProgress: snapshot.TopicProgress,
		OverallHours:  snapshot.OverallHours,
		Sessions:      snapshot.Sessions,
		ReviewNotes:   snapshot.ReviewNotes,
		SavedPlan:     snapshot.SavedPlan,
	})
}

// GetDashboard returns the aggregated progress view.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snapshot := h.reducer.Snapshot()
	writeJSON(w, http.StatusOK, report.Build(h.catalog, snapshot, h.now(), h.settings.ExamDate))
}

type topicResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	WeightMin      int     `json:"weight_min"`
	WeightMax      int     `json:"weight_max"`
	Description    string  `json:"description"`
	Difficulty     string  `json:"difficulty"`
	EstimatedHours int     `json:"estimated_hours"`
	Mastery        int     `json:"mastery"`
	LoggedHours    float64 `json:"logged_hours"`
	ReviewNote     string  `json:"review_note,omitempty"`
}

// GetTopics lists the syllabus merged with the candidate's progress.
// Query parameters sort (name, difficulty, weight, estimated) and
// filter (All, High, Medium, Low) control the listing.
func (h *Handler) GetTopics(w http.ResponseWriter, r *http.Request) {
	topics := catalog.FilterTopics(h.catalog.Topics, r.URL.Query().Get("filter"))
	topics = catalog.SortTopics(topics, catalog.SortOption(r.URL.Query().Get("sort")))

	snapshot := h.reducer.Snapshot()
	response := make([]topicResponse, 0, len(topics))
	for _, topic := range topics {
		response = append(response, topicResponse{
			ID:             topic.ID,
			Name:           topic.Name,
			Category:       string(topic.Category),
			WeightMin:      topic.WeightMin,
			WeightMax:      topic.WeightMax,
			Description:    topic.Description,
			Difficulty:     string(topic.Difficulty),
			EstimatedHours: topic.EstimatedHours,
			Mastery:        snapshot.TopicProgress[topic.ID],
			LoggedHours:    snapshot.TopicHours(topic.ID),
			ReviewNote:     snapshot.ReviewNotes[topic.ID],
		})
	}
	writeJSON(w, http.StatusOK, response)
}

type practiceResponse struct {
	Questions  []catalog.Question  `json:"questions"`
	Flashcards []catalog.Flashcard `json:"flashcards"`
}

// GetPractice returns the embedded question bank and flashcards.
func (h *Handler) GetPractice(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, practiceResponse{
		Questions:  h.catalog.Questions,
		Flashcards: h.catalog.Flashcards,
	})
}

type setProgressRequest struct {
	Value int `json:"value"`
}

type setProgressResponse struct {
	TopicID string `json:"topic_id"`
	Value   int    `json:"value"`
}

// SetProgress updates one topic's mastery percentage.
func (h *Handler) SetProgress(w http.ResponseWriter, r *http.Request) {
	var body setProgressRequest
	if !decodeBody(w, r, &body) {
		return
	}

	topicID := mux.Vars(r)["id"]
	value, err := h.reducer.SetProgress(r.Context(), topicID, body.Value)
	if err != nil {
		writeReducerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, setProgressResponse{TopicID: topicID, Value: value})
}

type addSessionRequest struct {
	Date  string  `json:"date"`
	Hours float64 `json:"hours"`
	Notes string  `json:"notes"`
}

// AddSession logs a study session for one topic.
func (h *Handler) AddSession(w http.ResponseWriter, r *http.Request) {
	var body addSessionRequest
	if !decodeBody(w, r, &body) {
		return
	}

	session, err := h.reducer.AddSession(r.Context(), mux.Vars(r)["id"], body.Date, body.Hours, body.Notes)
	if err != nil {
		writeReducerError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

type setNoteRequest struct {
	Note string `json:"note"`
}

// SetReviewNote replaces the review note of one topic.
func (h *Handler) SetReviewNote(w http.ResponseWriter, r *http.Request) {
	var body setNoteRequest
	if !decodeBody(w, r, &body) {
		return
	}

	if err := h.reducer.SetReviewNote(r.Context(), mux.Vars(r)["id"], body.Note); err != nil {
		writeReducerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type setHoursRequest struct {
	Hours float64 `json:"hours"`
}

// SetOverallHours overwrites the overall hour counter.
func (h *Handler) SetOverallHours(w http.ResponseWriter, r *http.Request) {
	var body setHoursRequest
	if !decodeBody(w, r, &body) {
		return
	}

	if err := h.reducer.SetOverallHours(r.Context(), body.Hours); err != nil {
		writeReducerError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetPlan returns the saved study plan, or 404 when none was generated.
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	snapshot := h.reducer.Snapshot()
	if snapshot.SavedPlan == nil {
		writeError(w, http.StatusNotFound, errors.New("no study plan generated yet"))
		return
	}
	writeJSON(w, http.StatusOK, snapshot.SavedPlan)
}

// GeneratePlan asks the model for a fresh plan and saves it. Only one
// generation runs at a time; a second request gets 409.
func (h *Handler) GeneratePlan(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.planInFlight {
		h.mu.Unlock()
		writeError(w, http.StatusConflict, errors.New("a plan generation is already in progress"))
		return
	}
	h.planInFlight = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.planInFlight = false
		h.mu.Unlock()
	}()

	plan, err := h.client.GenerateStudyPlan(r.Context(), h.planRequest())
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("plan generation failed: %w", err))
		return
	}

	if err := h.reducer.SavePlan(r.Context(), plan); err != nil {
		writeReducerError(w, err)
		return
	}

	h.mu.Lock()
	h.taskDone = map[string]bool{}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) planRequest() inference.GenerateStudyPlanRequest {
	profiles := make([]inference.TopicProfile, 0, len(h.catalog.Topics))
	for _, topic := range h.catalog.Topics {
		profiles = append(profiles, inference.TopicProfile{
			Name:           topic.Name,
			Difficulty:     string(topic.Difficulty),
			WeightMin:      topic.WeightMin,
			WeightMax:      topic.WeightMax,
			EstimatedHours: topic.EstimatedHours,
		})
	}
	return inference.GenerateStudyPlanRequest{
		ExamDate:      h.settings.ExamDate.Format(time.DateOnly),
		HoursPerWeek:  h.settings.HoursPerWeek,
		HasBackground: h.settings.HasBackground,
		Topics:        profiles,
	}
}

type setTaskRequest struct {
	Week int  `json:"week"`
	Task int  `json:"task"`
	Done bool `json:"done"`
}

type tasksResponse struct {
	Done map[string]bool `json:"done"`
}

// SetTaskDone toggles one daily-task checkbox of the saved plan.
func (h *Handler) SetTaskDone(w http.ResponseWriter, r *http.Request) {
	var body setTaskRequest
	if !decodeBody(w, r, &body) {
		return
	}

	snapshot := h.reducer.Snapshot()
	if snapshot.SavedPlan == nil {
		writeError(w, http.StatusNotFound, errors.New("no study plan generated yet"))
		return
	}
	if !taskExists(snapshot.SavedPlan, body.Week, body.Task) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no task %d in week %d", body.Task, body.Week))
		return
	}

	key := taskKey(body.Week, body.Task)
	h.mu.Lock()
	if body.Done {
		h.taskDone[key] = true
	} else {
		delete(h.taskDone, key)
	}
	done := make(map[string]bool, len(h.taskDone))
	for k, v := range h.taskDone {
		done[k] = v
	}
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, tasksResponse{Done: done})
}

// GetTasks returns the daily-task checkboxes of the saved plan.
func (h *Handler) GetTasks(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	done := make(map[string]bool, len(h.taskDone))
	for k, v := range h.taskDone {
		done[k] = v
	}
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, tasksResponse{Done: done})
}

func taskKey(week, task int) string {
	return fmt.Sprintf("%d:%d", week, task)
}

func taskExists(plan *inference.StudyPlan, week, task int) bool {
	for _, entry := range plan.WeeklyBreakdown {
		if entry.Week == week {
			return task >= 0 && task < len(entry.DailyTasks)
		}
	}
	return false
}

type explainRequest struct {
	TopicID string `json:"topic_id"`
	Query   string `json:"query"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

// Explain asks the model for a concept explanation within one topic.
// Only one explanation runs at a time; a second request gets 409.
func (h *Handler) Explain(w http.ResponseWriter, r *http.Request) {
	var body explainRequest
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Query == "" {
		writeError(w, http.StatusBadRequest, errors.New("query is required"))
		return
	}

	topic, ok := h.catalog.Topic(body.TopicID)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Errorf("%w: %s", state.ErrUnknownTopic, body.TopicID))
		return
	}

	h.mu.Lock()
	if h.explainInFlight {
		h.mu.Unlock()
		writeError(w, http.StatusConflict, errors.New("an explanation is already in progress"))
		return
	}
	h.explainInFlight = true
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.explainInFlight = false
		h.mu.Unlock()
	}()

	explanation, err := h.client.ExplainConcept(r.Context(), inference.ExplainConceptRequest{
		TopicName: topic.Name,
		Query:     body.Query,
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Errorf("explanation failed: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, explainResponse{Explanation: explanation})
}
