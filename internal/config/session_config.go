package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	apiURLVar      = "ASSOC_API_URL"
	httpTimeoutVar = "ASSOC_HTTP_TIMEOUT"
	tokenStoreVar  = "ASSOC_TOKEN_STORE"
	tokenKeyVar    = "ASSOC_TOKEN_KEY"
	tokenFileVar   = "ASSOC_TOKEN_FILE"
	redisAddrVar   = "ASSOC_REDIS_ADDR"

	TokenStoreMemory = "memory"
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
)

type Session struct{}

var _ SessionConfig = Session{}

// GetAPIBaseURL returns the backend base URL (e.g., "https://api.example.com")
func (Session) GetAPIBaseURL() string {
	return strings.TrimRight(GetEnv(apiURLVar, "http://localhost:8080"), "/")
}

func (Session) GetHTTPTimeout() time.Duration {
	return GetDuration(httpTimeoutVar, 15*time.Second)
}

func (Session) GetTokenStoreKind() string {
	switch kind := strings.ToLower(GetEnv(tokenStoreVar, TokenStoreFile)); kind {
	case TokenStoreMemory, TokenStoreRedis:
		return kind
	default:
		return TokenStoreFile
	}
}

func (Session) GetTokenKey() string {
	return GetEnv(tokenKeyVar, "assoc_admin_token")
}

func (Session) GetTokenFile() string {
	if file := os.Getenv(tokenFileVar); file != "" {
		return file
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".assoc-admin", "session.json")
	}
	return filepath.Join(home, ".assoc-admin", "session.json")
}

func (Session) GetRedisAddr() string {
	return GetEnv(redisAddrVar, "localhost:6379")
}
