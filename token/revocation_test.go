package token_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	apperrors "github.com/jrsteele09/go-assoc-admin/internal/errors"
	"github.com/jrsteele09/go-assoc-admin/token"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevocationListPrunes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	token.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { token.NowTimeFunc = time.Now })

	list := token.NewMemoryRevocationList()
	require.NoError(t, list.Revoke(ctx, "a", now.Add(time.Minute)))
	require.NoError(t, list.Revoke(ctx, "gone", now.Add(-time.Minute)))
	require.Equal(t, 1, list.Len())

	revoked, err := list.IsRevoked(ctx, "a")
	require.NoError(t, err)
	require.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = list.IsRevoked(ctx, "a")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "b", now.Add(time.Minute)))
	require.Equal(t, 1, list.Len(), "expired entries are pruned on the next revoke")
}

func newRedisRevocationList(t *testing.T) (*token.RedisRevocationList, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return token.NewRedisRevocationList(rdb, "test"), mr
}

func TestRedisRevocationList(t *testing.T) {
	ctx := context.Background()
	list, mr := newRedisRevocationList(t)

	require.NoError(t, list.Revoke(ctx, "jti-1", time.Now().Add(time.Minute)))
	require.True(t, mr.Exists("test:revoked:jti-1"))
	require.Greater(t, mr.TTL("test:revoked:jti-1"), time.Duration(0))

	revoked, err := list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = list.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "late", time.Now().Add(-time.Second)))
	require.False(t, mr.Exists("test:revoked:late"))

	mr.FastForward(2 * time.Minute)
	revoked, err = list.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestIssuerSharesRevocationsThroughRedis(t *testing.T) {
	ctx := context.Background()
	list, _ := newRedisRevocationList(t)
	first := token.NewIssuer(testSecret, time.Hour, token.WithRevocationList(list))
	second := token.NewIssuer(testSecret, time.Hour, token.WithRevocationList(list))

	raw, _, err := first.Issue(testUser)
	require.NoError(t, err)
	require.NoError(t, first.Revoke(ctx, raw))

	_, err = second.Verify(ctx, raw)
	require.ErrorIs(t, err, apperrors.ErrSessionExpired)
}

func TestIssuerRevocationOutage(t *testing.T) {
	ctx := context.Background()
	list, mr := newRedisRevocationList(t)
	issuer := token.NewIssuer(testSecret, time.Hour, token.WithRevocationList(list))

	raw, _, err := issuer.Issue(testUser)
	require.NoError(t, err)
	mr.Close()

	_, err = issuer.Verify(ctx, raw)
	require.ErrorIs(t, err, apperrors.ErrServer)
}
