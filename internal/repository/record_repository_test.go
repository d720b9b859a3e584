package repository

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *RecordRepository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "nested", "momentum.db")
	db, err := NewDB(dsn, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewRecordRepository(db)
}

func TestRecordRepositoryMissingKey(t *testing.T) {
	repo := newTestRepo(t)

	value, ok, err := repo.Load(context.Background(), "settings")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestRecordRepositorySaveOverwrites(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "tasks", []byte(`[]`)))
	require.NoError(t, repo.Save(ctx, "tasks", []byte(`[{"id":"1"}]`)))
	require.NoError(t, repo.Save(ctx, "categories", []byte(`[]`)))

	value, ok, err := repo.Load(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, string(value))

	value, ok, err = repo.Load(ctx, "categories")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, string(value))
}

func TestEnsureDirForSQLiteSkipsMemory(t *testing.T) {
	assert.NoError(t, ensureDirForSQLite("file::memory:?cache=shared"))
	assert.NoError(t, ensureDirForSQLite("plain.db"))
}
