package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certprep/internal/storage"
)

func TestSetupTestConfig(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfig(t, tmpDir)

	want := filepath.Join(tmpDir, "config.yml")
	assert.Equal(t, want, got)

	content, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Contains(t, string(content), "state.db")
	assert.Contains(t, string(content), `exam_date: "2026-11-17"`)
}

func TestSetupTestConfigWithAPIKey(t *testing.T) {
	tmpDir := t.TempDir()
	got := SetupTestConfigWithAPIKey(t, tmpDir)

	content, err := os.ReadFile(got)
	require.NoError(t, err)

	contentStr := string(content)
	assert.Contains(t, contentStr, "openai:")
	assert.Contains(t, contentStr, "api_key: fake-key-for-testing")
	assert.Contains(t, contentStr, "model: gpt-4o-mini")
	// The base config fields should also be present.
	assert.Contains(t, contentStr, "state.db")
}

func TestSeedStateBlob(t *testing.T) {
	tmpDir := t.TempDir()
	blob := []byte(`{"overallHours": 12.5}`)

	SeedStateBlob(t, tmpDir, blob)

	store, err := storage.Open(filepath.Join(tmpDir, "state.db"))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	value, ok, err := store.Get(context.Background(), storage.StateKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, blob, value)
}
