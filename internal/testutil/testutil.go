// Package testutil provides shared test helpers for creating config
// files and pre-seeded state databases.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certprep/internal/storage"
)

// SetupTestConfig creates a minimal config file pointing at a state
// database inside tmpDir. Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	configContent := fmt.Sprintf(`storage:
  path: %s
study:
  exam_date: "2026-11-17"
  hours_per_week: 15
`,
		filepath.Join(tmpDir, "state.db"),
	)

	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configContent), 0644))
	return cfgPath
}

// SetupTestConfigWithAPIKey creates a config file with a fake OpenAI API key for tests
// that require API key validation to pass.
func SetupTestConfigWithAPIKey(t *testing.T, tmpDir string) string {
	t.Helper()
	cfgPath := SetupTestConfig(t, tmpDir)

	content, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	content = append(content, []byte("openai:\n  api_key: fake-key-for-testing\n  model: gpt-4o-mini\n")...)
	require.NoError(t, os.WriteFile(cfgPath, content, 0644))
	return cfgPath
}

// SeedStateBlob writes a raw state blob into the database the config in
// tmpDir points at, creating the database if needed.
func SeedStateBlob(t *testing.T, tmpDir string, blob []byte) {
	t.Helper()

	store, err := storage.Open(filepath.Join(tmpDir, "state.db"))
	require.NoError(t, err)
	defer func() {
		require.NoError(t, store.Close())
	}()

	require.NoError(t, store.Set(context.Background(), storage.StateKey, blob))
}
