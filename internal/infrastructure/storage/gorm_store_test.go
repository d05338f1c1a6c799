package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMemoryStore(t *testing.T) *GormStore {
	t.Helper()
	s, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGormStoreGetMissing(t *testing.T) {
	s := newMemoryStore(t)

	_, err := s.Get(context.Background(), "intermediate_access_u1")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreSetOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)

	require.NoError(t, s.Set(ctx, "k", "one"))
	require.NoError(t, s.Set(ctx, "k", "two"))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "two", got)
}

func TestGormStoreSetMany(t *testing.T) {
	ctx := context.Background()
	s := newMemoryStore(t)
	require.NoError(t, s.Set(ctx, "totalRatings", "1"))

	err := s.SetMany(ctx, []Entry{
		{Key: "publicReviews", Value: "[]"},
		{Key: "averageRating", Value: "3.5"},
		{Key: "totalRatings", Value: "4"},
	})
	require.NoError(t, err)

	for key, want := range map[string]string{
		"publicReviews": "[]",
		"averageRating": "3.5",
		"totalRatings":  "4",
	} {
		got, err := s.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, got, key)
	}

	require.NoError(t, s.SetMany(ctx, nil))
}

func TestGormStoreCanceledContext(t *testing.T) {
	s := newMemoryStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.SetMany(ctx, []Entry{{Key: "a", Value: "1"}, {Key: "b", Value: "2"}})
	require.Error(t, err)

	_, err = s.Get(context.Background(), "a")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGormStorePersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "piano.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "progress_u1_intermediate", `{"seventhChords":true}`))
	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "progress_u1_intermediate")
	require.NoError(t, err)
	assert.JSONEq(t, `{"seventhChords":true}`, got)
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("")
	require.Error(t, err)
}
