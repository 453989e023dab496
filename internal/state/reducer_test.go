package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certprep/internal/catalog"
	"github.com/at-ishikawa/certprep/internal/inference"
	"github.com/at-ishikawa/certprep/internal/storage"
)

type fakeStore struct {
	blobs  map[string][]byte
	setErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{blobs: map[string][]byte{}}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	blob, ok := s.blobs[key]
	return blob, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.blobs[key] = value
	return nil
}

func newTestReducer(t *testing.T, store storage.BlobStore) *Reducer {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	return NewReducer(store, cat)
}

func TestReducer_SetProgress(t *testing.T) {
	tests := []struct {
		name    string
		topicID string
		value   int
		want    int
		wantErr error
	}{
		{name: "stores value in range", topicID: "ethics", value: 45, want: 45},
		{name: "clamps above 100", topicID: "ethics", value: 250, want: 100},
		{name: "clamps below 0", topicID: "quant", value: -10, want: 0},
		{name: "rejects unknown topic", topicID: "astrology", value: 50, wantErr: ErrUnknownTopic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newFakeStore()
			reducer := newTestReducer(t, store)

			got, err := reducer.SetProgress(ctx, tt.topicID, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, store.blobs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, reducer.Snapshot().TopicProgress[tt.topicID])
			assert.Contains(t, store.blobs, storage.StateKey)
		})
	}
}

func TestReducer_AddSession(t *testing.T) {
	tests := []struct {
		name    string
		topicID string
		date    string
		hours   float64
		wantErr error
	}{
		{name: "logs a valid session", topicID: "ethics", date: "2026-09-01", hours: 1.5},
		{name: "rejects unknown topic", topicID: "astrology", date: "2026-09-01", hours: 1, wantErr: ErrUnknownTopic},
		{name: "rejects zero hours", topicID: "ethics", date: "2026-09-01", hours: 0, wantErr: ErrInvalidHours},
		{name: "rejects negative hours", topicID: "ethics", date: "2026-09-01", hours: -2, wantErr: ErrInvalidHours},
		{name: "rejects malformed date", topicID: "ethics", date: "01/09/2026", hours: 1, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			reducer := newTestReducer(t, newFakeStore())

			session, err := reducer.AddSession(ctx, tt.topicID, tt.date, tt.hours, "read chapter 3")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, session.ID)
			assert.Equal(t, tt.hours, session.HoursSpent)

			snapshot := reducer.Snapshot()
			require.Len(t, snapshot.Sessions[tt.topicID], 1)
			assert.InDelta(t, tt.hours, snapshot.OverallHours, 1e-9)
		})
	}
}

func TestReducer_AddSession_AccumulatesRoundedHours(t *testing.T) {
	ctx := context.Background()
	reducer := newTestReducer(t, newFakeStore())

	_, err := reducer.AddSession(ctx, "ethics", "2026-09-01", 0.03, "")
	require.NoError(t, err)
	_, err = reducer.AddSession(ctx, "quant", "2026-09-01", 1.1, "")
	require.NoError(t, err)

	assert.Equal(t, 1.13, reducer.Snapshot().OverallHours)
}

func TestReducer_AddSession_IDsAreUniqueUnderFrozenClock(t *testing.T) {
	ctx := context.Background()
	reducer := newTestReducer(t, newFakeStore())
	frozen := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	reducer.now = func() time.Time { return frozen }

	first, err := reducer.AddSession(ctx, "ethics", "2026-09-01", 1, "")
	require.NoError(t, err)
	second, err := reducer.AddSession(ctx, "ethics", "2026-09-01", 1, "")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Less(t, first.ID, second.ID)
}

func TestReducer_SetOverallHours(t *testing.T) {
	ctx := context.Background()
	reducer := newTestReducer(t, newFakeStore())

	require.NoError(t, reducer.SetOverallHours(ctx, 42.128))
	assert.Equal(t, 42.13, reducer.Snapshot().OverallHours)

	err := reducer.SetOverallHours(ctx, -1)
	assert.ErrorIs(t, err, ErrInvalidHours)
	assert.Equal(t, 42.13, reducer.Snapshot().OverallHours)
}

func TestReducer_SetReviewNote(t *testing.T) {
	ctx := context.Background()
	reducer := newTestReducer(t, newFakeStore())

	require.NoError(t, reducer.SetReviewNote(ctx, "fra", "revisit inventory methods"))
	assert.Equal(t, "revisit inventory methods", reducer.Snapshot().ReviewNotes["fra"])

	require.NoError(t, reducer.SetReviewNote(ctx, "fra", ""))
	assert.NotContains(t, reducer.Snapshot().ReviewNotes, "fra")

	err := reducer.SetReviewNote(ctx, "astrology", "nope")
	assert.ErrorIs(t, err, ErrUnknownTopic)
}

func TestReducer_SavePlan(t *testing.T) {
	ctx := context.Background()
	reducer := newTestReducer(t, newFakeStore())

	err := reducer.SavePlan(ctx, inference.StudyPlan{Strategy: "cram"})
	assert.ErrorIs(t, err, inference.ErrEmptyPlan)
	assert.Nil(t, reducer.Snapshot().SavedPlan)

	plan := inference.StudyPlan{
		Strategy: "steady coverage with weekly review",
		WeeklyBreakdown: []inference.WeekPlan{
			{Week: 1, Topic: "Ethical and Professional Standards", FocusArea: "Code and Standards", DailyTasks: []string{"Read Standard I"}},
		},
		Tips: []string{"Do mocks under exam timing"},
	}
	require.NoError(t, reducer.SavePlan(ctx, plan))
	assert.Equal(t, &plan, reducer.Snapshot().SavedPlan)
}

func TestReducer_LoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	first := newTestReducer(t, store)
	_, err := first.SetProgress(ctx, "ethics", 60)
	require.NoError(t, err)
	session, err := first.AddSession(ctx, "quant", "2026-09-01", 2.5, "TVM drills")
	require.NoError(t, err)

	second := newTestReducer(t, store)
	require.NoError(t, second.Load(ctx))

	snapshot := second.Snapshot()
	assert.Equal(t, 60, snapshot.TopicProgress["ethics"])
	require.Len(t, snapshot.Sessions["quant"], 1)
	assert.Equal(t, session, snapshot.Sessions["quant"][0])
	assert.Equal(t, 2.5, snapshot.OverallHours)

	// New sessions must not collide with ids restored from the blob.
	second.now = func() time.Time { return time.Unix(0, 0) }
	next, err := second.AddSession(ctx, "quant", "2026-09-02", 1, "")
	require.NoError(t, err)
	assert.NotEqual(t, session.ID, next.ID)
}

func TestReducer_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("missing blob keeps defaults", func(t *testing.T) {
		reducer := newTestReducer(t, newFakeStore())
		require.NoError(t, reducer.Load(ctx))
		assert.Zero(t, reducer.Snapshot().OverallHours)
	})

	t.Run("null review notes stay writable after load", func(t *testing.T) {
		store := newFakeStore()
		store.blobs[storage.StateKey] = []byte(`{"reviewNotes":null}`)
		reducer := newTestReducer(t, store)
		require.NoError(t, reducer.Load(ctx))

		require.NoError(t, reducer.SetReviewNote(ctx, "ethics", "reread the code of ethics"))
		assert.Equal(t, "reread the code of ethics", reducer.Snapshot().ReviewNotes["ethics"])
	})

	t.Run("corrupt blob fails load", func(t *testing.T) {
		store := newFakeStore()
		store.blobs[storage.StateKey] = []byte(`not json at all`)
		reducer := newTestReducer(t, store)
		assert.ErrorIs(t, reducer.Load(ctx), ErrCorruptState)
	})
}

func TestReducer_PersistFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.setErr = errors.New("disk full")
	reducer := newTestReducer(t, store)

	_, err := reducer.SetProgress(ctx, "ethics", 50)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
