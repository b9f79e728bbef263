package token

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RevocationList remembers logged out tokens by jti until they would have
// expired anyway.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryRevocationList keeps revocations for the life of the process.
type MemoryRevocationList struct {
	revoked map[string]time.Time
	lock    sync.Mutex
}

func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		revoked: make(map[string]time.Time),
	}
}

// Revoke records jti and prunes entries that have run out.
func (l *MemoryRevocationList) Revoke(_ context.Context, jti string, until time.Time) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	now := NowTimeFunc()
	for id, exp := range l.revoked {
		if !now.Before(exp) {
			delete(l.revoked, id)
		}
	}
	if now.Before(until) {
		l.revoked[jti] = until
	}
	return nil
}

func (l *MemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.lock.Lock()
	defer l.lock.Unlock()
	until, ok := l.revoked[jti]
	return ok && NowTimeFunc().Before(until), nil
}

// Len is the number of entries currently held.
func (l *MemoryRevocationList) Len() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.revoked)
}

// RedisRevocationList shares revocations between backend processes. Each jti
// is a key that expires with the token.
type RedisRevocationList struct {
	client *redis.Client
	prefix string
}

func NewRedisRevocationList(client *redis.Client, prefix string) *RedisRevocationList {
	return &RedisRevocationList{client: client, prefix: prefix}
}

func (l *RedisRevocationList) key(jti string) string {
	return l.prefix + ":revoked:" + jti
}

func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(NowTimeFunc())
	if ttl <= 0 {
		return nil
	}
	return errors.Wrap(l.client.Set(ctx, l.key(jti), "1", ttl).Err(), "[RedisRevocationList.Revoke]")
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(jti)).Result()
	if err != nil {
		return false, errors.Wrap(err, "[RedisRevocationList.IsRevoked]")
	}
	return n > 0, nil
}
