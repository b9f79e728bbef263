package tokenstore

import (
	"github.com/jrsteele09/go-assoc-admin/internal/config"
	"github.com/redis/go-redis/v9"
)

// New builds the configured store, wrapped so storage failures degrade to "absent".
func New(cfg config.SessionConfig) Store {
	var store Store
	switch cfg.GetTokenStoreKind() {
	case config.TokenStoreMemory:
		store = NewMemoryStore()
	case config.TokenStoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.GetRedisAddr()})
		store = NewRedisStore(client, "assoc-admin", cfg.GetTokenKey())
	default:
		store = NewFileStore(cfg.GetTokenFile(), cfg.GetTokenKey())
	}
	return Degrading(store)
}
