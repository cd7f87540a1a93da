package kvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"crowdfix/configs"
	"crowdfix/internal/dbs"
	"crowdfix/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"file": func(t *testing.T) Store {
			s, err := NewFileStore(t.TempDir())
			require.NoError(t, err)
			return s
		},
		"redis": func(t *testing.T) Store {
			mr := miniredis.RunT(t)
			return NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "test:")
		},
		"sqlite": func(t *testing.T) Store {
			db, err := dbs.Open("sqlite", ":memory:")
			require.NoError(t, err)
			s, err := NewSQLStore(db)
			require.NoError(t, err)
			return s
		},
		"badger": func(t *testing.T) Store {
			s, err := NewBadgerStore("")
			require.NoError(t, err)
			return s
		},
	}
}

func TestStore_Contract(t *testing.T) {
	ctx := context.Background()

	for name, open := range backends(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			var token string
			assert.ErrorIs(t, s.Get(ctx, KeyToken, &token), ErrNotFound)

			require.NoError(t, s.Set(ctx, KeyToken, "abc"))
			require.NoError(t, s.Get(ctx, KeyToken, &token))
			assert.Equal(t, "abc", token)

			require.NoError(t, s.Set(ctx, KeyToken, "def"), "overwrite")
			require.NoError(t, s.Get(ctx, KeyToken, &token))
			assert.Equal(t, "def", token)

			list := []models.Notification{{ID: 1, Message: "hello"}, {ID: 2, Message: "bye", IsRead: true}}
			require.NoError(t, s.Set(ctx, KeyNotifications, list))
			var got []models.Notification
			require.NoError(t, s.Get(ctx, KeyNotifications, &got))
			assert.Equal(t, list, got)

			require.NoError(t, s.Delete(ctx, KeyToken))
			assert.ErrorIs(t, s.Get(ctx, KeyToken, &token), ErrNotFound)
			assert.NoError(t, s.Delete(ctx, KeyToken), "deleting a missing key")
		})
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, KeyDarkMode, true))

	second, err := NewFileStore(dir)
	require.NoError(t, err)
	var dark bool
	require.NoError(t, second.Get(ctx, KeyDarkMode, &dark))
	assert.True(t, dark)
}

func TestFileStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, stateFileName), []byte("{not json"), 0o600))

	s, err := NewFileStore(dir)
	require.NoError(t, err)

	var v string
	err = s.Get(context.Background(), KeyToken, &v)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestOpen_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, &configs.Config{StoreBackend: configs.BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &memoryStore{}, s)

	s, err = Open(ctx, &configs.Config{StoreBackend: configs.BackendFile, StorePath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &fileStore{}, s)

	mr := miniredis.RunT(t)
	s, err = Open(ctx, &configs.Config{StoreBackend: configs.BackendRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &redisStore{}, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, &configs.Config{StoreBackend: configs.BackendSQL, SQLDriver: "sqlite", SQLDSN: ":memory:"})
	require.NoError(t, err)
	assert.IsType(t, &sqlStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(ctx, &configs.Config{StoreBackend: "floppy"})
	assert.Error(t, err)
}
