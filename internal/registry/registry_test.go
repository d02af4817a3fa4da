package registry

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadtrack/internal/model"
)

func TestExtractSheetID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		err   bool
	}{
		{"url", "https://docs.google.com/spreadsheets/d/1AbC_d-9/edit#gid=0", "1AbC_d-9", false},
		{"bare id", "1AbC_d-9", "1AbC_d-9", false},
		{"bare id padded", "  1AbC_d-9 \n", "1AbC_d-9", false},
		{"garbage", "not a sheet!", "", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSheetID(tt.input)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "registry.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	return s
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, "")
	t.Cleanup(func() { s.Close() }) //nolint:errcheck
	return s, mr
}

// runStoreContract exercises the behavior every backend shares.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	added := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	require.NoError(t, s.Add(ctx, model.TrackedSheet{ID: "b", Name: "Bravo", ClientTag: "Acme", AddedAt: added}))
	require.NoError(t, s.Add(ctx, model.TrackedSheet{ID: "a", Name: "Alpha", ClientTag: "Globex", SheetName: "March", AddedAt: added}))
	assert.ErrorIs(t, s.Add(ctx, model.TrackedSheet{ID: "b", Name: "again"}), ErrAlreadyTracked)

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, "March", list[1].SheetName)
	assert.True(t, added.Equal(list[0].AddedAt))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Globex", got.ClientTag)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Remove(ctx, "b"))
	require.NoError(t, s.Remove(ctx, "b"))

	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)
}

func TestFileStore_Contract(t *testing.T) {
	runStoreContract(t, NewFileStore(filepath.Join(t.TempDir(), "nested", "sheets-config.json")))
}

func TestSQLiteStore_Contract(t *testing.T) {
	runStoreContract(t, newTestSQLiteStore(t))
}

func TestRedisStore_Contract(t *testing.T) {
	s, _ := newTestRedisStore(t)
	runStoreContract(t, s)
}

func TestRedisStore_DocumentFormat(t *testing.T) {
	s, mr := newTestRedisStore(t)
	require.NoError(t, s.Add(context.Background(), model.TrackedSheet{ID: "x", ClientTag: "Acme"}))

	raw, err := mr.Get(DefaultRedisKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"sheets":[{"id":"x"`)
	assert.Contains(t, raw, `"clientTag":"Acme"`)
}

func TestRedisStore_CorruptDocument(t *testing.T) {
	s, mr := newTestRedisStore(t)
	require.NoError(t, mr.Set(DefaultRedisKey, "{not json"))

	_, err := s.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: decode")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Driver: DriverFile, Path: filepath.Join(t.TempDir(), "r.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(ctx, Options{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "r.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	require.NoError(t, s.Close())

	mr := miniredis.RunT(t)
	s, err = Open(ctx, Options{Driver: DriverRedis, RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &RedisStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, Options{Driver: DriverRedis, RedisURL: "::bad"})
	assert.Error(t, err)

	_, err = Open(ctx, Options{Driver: "mongo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
