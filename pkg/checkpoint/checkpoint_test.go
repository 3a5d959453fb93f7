package checkpoint

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsZeroState(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "checkpoint.json"))

	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(0), st.LastProcessedNewsID)
	assert.True(t, st.LastRun.IsZero())
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "checkpoint.json"))

	lastRun := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	require.NoError(t, store.Save(State{LastProcessedNewsID: 1234, LastRun: lastRun}))

	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(1234), st.LastProcessedNewsID)
	assert.True(t, st.LastRun.Equal(lastRun))
}

func TestSaveOverwritesAtomically(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "checkpoint.json"))

	require.NoError(t, store.Save(State{LastProcessedNewsID: 1}))
	require.NoError(t, store.Save(State{LastProcessedNewsID: 2}))

	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.LastProcessedNewsID)

	// No temp files may survive a successful save.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "checkpoint.json", entries[0].Name())
}

func TestLoadCorruptFileReturnsZeroStateWithError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	st, err := NewStore(path).Load()
	assert.Error(t, err)
	assert.Equal(t, int64(0), st.LastProcessedNewsID)
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "checkpoint.json")
	store := NewStore(path)

	require.NoError(t, store.Save(State{LastProcessedNewsID: 7}))

	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, int64(7), st.LastProcessedNewsID)
}
