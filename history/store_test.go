package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pseint2js/transpiler"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	_, err = os.Stat(path)
	assert.NoError(t, err)

	// Reopening an existing database must not fail on the schema.
	s, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}

func TestRecordAndGet(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	src := "Algoritmo A\nLeer x\nFinAlgoritmo"
	e, err := s.Record(ctx, NewEntry(src, transpiler.Convert(src)))
	require.NoError(t, err)
	assert.Positive(t, e.ID)
	assert.Equal(t, fixed, e.CreatedAt)
	assert.Equal(t, "A", e.MainName)
	assert.True(t, e.Success)
	assert.Equal(t, 1, e.Warnings)
	assert.Len(t, e.SourceHash, 64)

	got, err := s.Get(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Uno", "Dos", "Tres"} {
		_, err := s.Record(ctx, Entry{MainName: name, Success: true, SourceHash: name})
		require.NoError(t, err)
	}

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Tres", all[0].MainName)
	assert.Equal(t, "Uno", all[2].MainName)

	two, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, "Dos", two[1].MainName)
}

func TestRecentEmpty(t *testing.T) {
	s := openTestStore(t)
	got, err := s.Recent(context.Background(), 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNewEntryFailedConversion(t *testing.T) {
	res := transpiler.Convert("Escribir 1")
	e := NewEntry("Escribir 1", res)
	assert.False(t, e.Success)
	assert.Equal(t, 1, e.Errors)
	assert.Equal(t, "", e.MainName)
	assert.Equal(t, NewEntry("Escribir 1", res).SourceHash, e.SourceHash)
	assert.NotEqual(t, NewEntry("Escribir 2", res).SourceHash, e.SourceHash)
}
