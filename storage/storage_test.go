package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "selecionei_user")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "selecionei_user", []byte(`{"id":7}`)))
	data, err := s.Get(ctx, "selecionei_user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7}`, string(data))

	require.NoError(t, s.Put(ctx, "selecionei_user", []byte(`{"id":8}`)))
	data, err = s.Get(ctx, "selecionei_user")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":8}`, string(data))

	require.NoError(t, s.Delete(ctx, "selecionei_user"))
	_, err = s.Get(ctx, "selecionei_user")
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting twice is fine
	require.NoError(t, s.Delete(ctx, "selecionei_user"))
}

func TestLocalStorage(t *testing.T) {
	s, err := NewLocalStorage(filepath.Join(t.TempDir(), "records"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStorage(t, s)
}

func TestLocalStorageSanitizesKeys(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "../escape/attempt", []byte("x")))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "__escape_attempt.json", entries[0].Name())
}

func TestSealedStorage(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocalStorage(dir)
	require.NoError(t, err)

	sealed, err := NewSealedStorage(local, "correct horse battery staple")
	require.NoError(t, err)
	exerciseStorage(t, sealed)

	ctx := context.Background()
	require.NoError(t, sealed.Put(ctx, "selecionei_user", []byte(`{"id":7,"email":"ana@acme.test"}`)))

	raw, err := local.Get(ctx, "selecionei_user")
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "ana@acme.test")

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewSealedStorage(local, "another secret")
		require.NoError(t, err)
		_, err = other.Get(ctx, "selecionei_user")
		assert.ErrorIs(t, err, ErrUnsealFailed)
	})

	t.Run("truncated record", func(t *testing.T) {
		require.NoError(t, local.Put(ctx, "short", []byte("abc")))
		_, err := sealed.Get(ctx, "short")
		assert.ErrorIs(t, err, ErrUnsealFailed)
	})

	_, err = NewSealedStorage(local, "")
	assert.Error(t, err)
}

func TestNewStorage(t *testing.T) {
	ctx := context.Background()

	s, err := NewStorage(ctx, StorageConfig{Type: StorageTypeLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	s, err = NewStorage(ctx, StorageConfig{Type: StorageTypeLocal, LocalPath: t.TempDir(), Secret: "s3cr3t"})
	require.NoError(t, err)
	assert.IsType(t, &SealedStorage{}, s)

	_, err = NewStorage(ctx, StorageConfig{Type: StorageTypeS3})
	assert.Error(t, err)

	_, err = NewStorage(ctx, StorageConfig{Type: "floppy"})
	assert.Error(t, err)
}

func TestRedisStorage(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("Skipping live test: REDIS_ADDR not set")
	}

	s, err := NewRedisStorage(context.Background(), StorageConfig{RedisAddr: addr})
	require.NoError(t, err)
	defer s.Close()

	exerciseStorage(t, s)
}

func TestPostgresStorage(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("Skipping live test: DATABASE_URL not set")
	}

	s, err := NewPostgresStorage(context.Background(), url)
	require.NoError(t, err)
	defer s.Close()

	exerciseStorage(t, s)
}
