package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rovshanmuradov/rogue-runner/internal/storage"
)

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "state")

	s, err := New(dir)
	require.NoError(t, err)

	_, err = s.Get(ctx, "dashboard_stats")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, "dashboard_stats", []byte(`{"a":1}`)))
	require.NoError(t, s.Set(ctx, "dashboard_stats", []byte(`{"a":2}`)))

	got, err := s.Get(ctx, "dashboard_stats")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
	assert.Equal(t, "dashboard_stats.json", entries[0].Name())
}

func TestFileStoreSanitisesKeys(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(s.dir, ".._.._etc_passwd.json"), s.path("../../etc/passwd"))
}
