package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-assoc-admin/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, v := range []string{"ASSOC_API_URL", "ASSOC_HTTP_TIMEOUT", "ASSOC_TOKEN_STORE", "ASSOC_TOKEN_KEY", "PORT", "ENV"} {
		t.Setenv(v, "")
	}
	c := config.New()

	require.Equal(t, "http://localhost:8080", c.GetAPIBaseURL())
	require.Equal(t, 15*time.Second, c.GetHTTPTimeout())
	require.Equal(t, config.TokenStoreFile, c.GetTokenStoreKind())
	require.Equal(t, "assoc_admin_token", c.GetTokenKey())
	require.Equal(t, ":8080", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.Empty(t, c.GetRevocationsRedisAddr())
}

func TestOverrides(t *testing.T) {
	t.Setenv("ASSOC_API_URL", "https://api.example.com/")
	t.Setenv("ASSOC_HTTP_TIMEOUT", "3s")
	t.Setenv("ASSOC_TOKEN_STORE", "REDIS")
	t.Setenv("ASSOC_TOKEN_FILE", "/tmp/token.json")
	t.Setenv("PORT", ":9000")
	t.Setenv("DEV_TOKEN_TTL", "not-a-duration")
	c := config.New()

	require.Equal(t, "https://api.example.com", c.GetAPIBaseURL())
	require.Equal(t, 3*time.Second, c.GetHTTPTimeout())
	require.Equal(t, config.TokenStoreRedis, c.GetTokenStoreKind())
	require.Equal(t, "/tmp/token.json", c.GetTokenFile())
	require.Equal(t, ":9000", c.GetPort())
	require.Equal(t, time.Hour, c.GetTokenTTL())
}

func TestUnknownStoreFallsBackToFile(t *testing.T) {
	t.Setenv("ASSOC_TOKEN_STORE", "localStorage")
	require.Equal(t, config.TokenStoreFile, config.New().GetTokenStoreKind())
}
