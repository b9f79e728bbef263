package tokenstore_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-assoc-admin/internal/config"
	"github.com/jrsteele09/go-assoc-admin/tokenstore"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (tokenstore.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return tokenstore.NewRedisStore(rdb, "test", ""), mr
}

func TestStoreContract(t *testing.T) {
	stores := map[string]func(t *testing.T) tokenstore.Store{
		"memory": func(t *testing.T) tokenstore.Store { return tokenstore.NewMemoryStore() },
		"file": func(t *testing.T) tokenstore.Store {
			return tokenstore.NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json"), "")
		},
		"redis": func(t *testing.T) tokenstore.Store {
			s, _ := newRedisStore(t)
			return s
		},
	}

	for name, build := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := build(t)

			_, err := store.Get(ctx)
			require.ErrorIs(t, err, tokenstore.ErrNotFound)

			require.NoError(t, store.Set(ctx, "token-1"))
			got, err := store.Get(ctx)
			require.NoError(t, err)
			require.Equal(t, "token-1", got)

			require.NoError(t, store.Set(ctx, "token-2"))
			got, err = store.Get(ctx)
			require.NoError(t, err)
			require.Equal(t, "token-2", got)

			require.NoError(t, store.Clear(ctx))
			require.NoError(t, store.Clear(ctx))
			_, err = store.Get(ctx)
			require.ErrorIs(t, err, tokenstore.ErrNotFound)
		})
	}
}

func TestRedisStoreUsesPrefixedKey(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, store.Set(context.Background(), "abc"))
	got, err := mr.Get("test:" + tokenstore.DefaultKey)
	require.NoError(t, err)
	require.Equal(t, "abc", got)
}

func TestFileStorePermissionsAndSharedDocument(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	a := tokenstore.NewFileStore(path, "a")
	b := tokenstore.NewFileStore(path, "b")

	require.NoError(t, a.Set(ctx, "token-a"))
	require.NoError(t, b.Set(ctx, "token-b"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, a.Clear(ctx))
	got, err := b.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "token-b", got)

	require.NoError(t, b.Clear(ctx))
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

type brokenStore struct{}

var errUnavailable = stderrors.New("storage disabled")

func (brokenStore) Get(context.Context) (string, error) { return "", errUnavailable }
func (brokenStore) Set(context.Context, string) error   { return errUnavailable }
func (brokenStore) Clear(context.Context) error         { return errUnavailable }

func TestDegradingTreatsFailureAsAbsent(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.Degrading(brokenStore{})

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, tokenstore.ErrNotFound)
	require.ErrorIs(t, store.Set(ctx, "x"), errUnavailable)
	require.ErrorIs(t, store.Clear(ctx), errUnavailable)
}

func TestDegradingCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	ctx := context.Background()
	store := tokenstore.Degrading(tokenstore.NewFileStore(path, ""))

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, tokenstore.ErrNotFound)

	require.NoError(t, store.Set(ctx, "a.b.c"))
	got, err := store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "a.b.c", got)
}

func TestFileStoreClearRemovesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	require.NoError(t, tokenstore.NewFileStore(path, "").Clear(context.Background()))
	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestNewFromConfig(t *testing.T) {
	t.Setenv("ASSOC_TOKEN_STORE", "memory")
	store := tokenstore.New(config.New())
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "abc"))
	got, err := store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc", got)
}
