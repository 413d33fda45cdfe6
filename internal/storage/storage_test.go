package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoclient/internal/todo"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}

func TestRecordAndRecent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	require.NoError(t, s.Record(ctx, "create", "7", "Buy milk", nil))
	require.NoError(t, s.Record(ctx, "update", "7", "Buy milk", nil))
	require.NoError(t, s.Record(ctx, "delete", "7", "", errors.New("delete todo: unexpected status 500")))

	entries, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "delete", entries[0].Op)
	assert.False(t, entries[0].OK)
	assert.Equal(t, "delete todo: unexpected status 500", entries[0].Error)
	assert.Equal(t, base.Add(3*time.Second), entries[0].At)

	assert.Equal(t, "create", entries[2].Op)
	assert.True(t, entries[2].OK)
	assert.Equal(t, todo.ID("7"), entries[2].TodoID)
	assert.Equal(t, "Buy milk", entries[2].Task)
	assert.NotEmpty(t, entries[2].ID)
	assert.NotEqual(t, entries[0].ID, entries[2].ID)
}

func TestRecentLimit(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, "search", "", "milk", nil))
	}

	entries, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	none, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistoryFiltersByTodo(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	require.NoError(t, s.Record(ctx, "create", "1", "a", nil))
	require.NoError(t, s.Record(ctx, "create", "2", "b", nil))
	require.NoError(t, s.Record(ctx, "update", "1", "a", nil))

	entries, err := s.History(ctx, "1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "create", entries[0].Op)
	assert.Equal(t, "update", entries[1].Op)
}

func TestJournalSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), "create", "1", "a", nil))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	entries, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file::memory:", sqliteDSN("file::memory:"))
	dsn := sqliteDSN("/tmp/journal.db")
	assert.Contains(t, dsn, "file:///tmp/journal.db")
	assert.Contains(t, dsn, "mode=rwc")
}
