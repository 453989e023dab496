package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/at-ishikawa/certprep/internal/catalog"
	"github.com/at-ishikawa/certprep/internal/inference"
	"github.com/at-ishikawa/certprep/internal/storage"
)

var (
	ErrUnknownTopic = errors.New("unknown topic")
	ErrInvalidHours = errors.New("session hours must be positive")
	ErrInvalidDate  = errors.New("session date must be formatted as YYYY-MM-DD")
)

// Reducer is the single writer of the candidate state. Every accepted
// mutation is applied in memory and then written through to the store
// before the call returns, so a reader immediately after a mutation sees
// the new value.
type Reducer struct {
	mu      sync.Mutex
	store   storage.BlobStore
	catalog *catalog.Catalog
	state   *UserState

	// lastSessionID guards against two sessions logged within the same
	// clock tick getting the same id.
	lastSessionID int64
	now           func() time.Time
}

func NewReducer(store storage.BlobStore, cat *catalog.Catalog) *Reducer {
	return &Reducer{
		store:   store,
		catalog: cat,
		state:   NewUserState(cat.TopicIDs()),
		now:     time.Now,
	}
}

// Load reads the persisted blob. A missing blob leaves the zero-progress
// defaults in place; a blob that is not a JSON object fails with
// ErrCorruptState rather than being overwritten on the next mutation.
func (r *Reducer) Load(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	raw, ok, err := r.store.Get(ctx, storage.StateKey)
	if err != nil {
		return fmt.Errorf("store.Get(%s) > %w", storage.StateKey, err)
	}
	if !ok {
		return nil
	}

	state, err := Decode(raw, r.catalog.TopicIDs())
	if err != nil {
		return fmt.Errorf("state.Decode() > %w", err)
	}
	r.state = state

	for _, sessions := range state.Sessions {
		for _, session := range sessions {
			if id, err := strconv.ParseInt(session.ID, 10, 64); err == nil && id > r.lastSessionID {
				r.lastSessionID = id
			}
		}
	}
	return nil
}

// Snapshot returns a deep copy of the current state.
func (r *Reducer) Snapshot() *UserState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

// SetProgress sets a topic's mastery percentage, clamped to [0, 100].
// The clamped value actually stored is returned.
func (r *Reducer) SetProgress(ctx context.Context, topicID string, value int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.catalog.Topic(topicID); !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTopic, topicID)
	}

	clamped := clampProgress(value)
	r.state.TopicProgress[topicID] = clamped
	if err := r.persist(ctx); err != nil {
		return 0, err
	}
	return clamped, nil
}

// AddSession logs a study session against a topic and folds its hours
// into the overall counter. The returned session carries the assigned id.
func (r *Reducer) AddSession(ctx context.Context, topicID, date string, hours float64, notes string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.catalog.Topic(topicID); !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrUnknownTopic, topicID)
	}
	if hours <= 0 {
		return Session{}, fmt.Errorf("%w: got %v", ErrInvalidHours, hours)
	}
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return Session{}, fmt.Errorf("%w: got %q", ErrInvalidDate, date)
	}

	session := Session{
		ID:         strconv.FormatInt(r.nextSessionID(), 10),
		TopicID:    topicID,
		Date:       date,
		HoursSpent: hours,
		Notes:      notes,
	}
	r.state.Sessions[topicID] = append(r.state.Sessions[topicID], session)
	r.state.OverallHours = roundHours(r.state.OverallHours + hours)

	if err := r.persist(ctx); err != nil {
		return Session{}, err
	}
	return session, nil
}

// SetOverallHours overwrites the overall hour counter. The counter is
// editable independently of the per-session log, so the two are allowed
// to drift apart.
func (r *Reducer) SetOverallHours(ctx context.Context, hours float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if hours < 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidHours, hours)
	}
	r.state.OverallHours = roundHours(hours)
	return r.persist(ctx)
}

// SetReviewNote replaces the free-form review note for a topic. An empty
// note clears it.
func (r *Reducer) SetReviewNote(ctx context.Context, topicID, note string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.catalog.Topic(topicID); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTopic, topicID)
	}
	if note == "" {
		delete(r.state.ReviewNotes, topicID)
	} else {
		r.state.ReviewNotes[topicID] = note
	}
	return r.persist(ctx)
}

// SavePlan stores a generated study plan, replacing any previous one.
func (r *Reducer) SavePlan(ctx context.Context, plan inference.StudyPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := plan.Validate(); err != nil {
		return err
	}
	r.state.SavedPlan = &plan
	return r.persist(ctx)
}

func (r *Reducer) nextSessionID() int64 {
	id := r.now().UnixNano()
	if id <= r.lastSessionID {
		id = r.lastSessionID + 1
	}
	r.lastSessionID = id
	return id
}

func (r *Reducer) persist(ctx context.Context) error {
	raw, err := r.state.Encode()
	if err != nil {
		return fmt.Errorf("state.Encode() > %w", err)
	}
	if err := r.store.Set(ctx, storage.StateKey, raw); err != nil {
		return fmt.Errorf("store.Set(%s) > %w", storage.StateKey, err)
	}
	return nil
}
