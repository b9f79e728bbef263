package tokenstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ Store = (*RedisStore)(nil)

// RedisStore keeps the token in Redis under "<prefix>:<key>" so several console
// processes on one workstation share a login.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, prefix, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	if prefix != "" {
		key = prefix + ":" + key
	}
	return &RedisStore{client: client, key: key}
}

func (r *RedisStore) Get(ctx context.Context) (string, error) {
	token, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", errors.Wrap(err, "[RedisStore.Get]")
	}
	if token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

func (r *RedisStore) Set(ctx context.Context, token string) error {
	return errors.Wrap(r.client.Set(ctx, r.key, token, 0).Err(), "[RedisStore.Set]")
}

func (r *RedisStore) Clear(ctx context.Context) error {
	return errors.Wrap(r.client.Del(ctx, r.key).Err(), "[RedisStore.Clear]")
}
