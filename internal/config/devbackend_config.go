package config

import (
	"fmt"
	"time"
)

const (
	portEnvVar          = "PORT"
	signingSecretVar    = "DEV_SIGNING_SECRET"
	tokenTTLVar         = "DEV_TOKEN_TTL"
	seedPasswordVar     = "DEV_SEED_PASSWORD"
	revocationsRedisVar = "DEV_REVOCATIONS_REDIS_ADDR"
)

type DevBackend struct{}

var _ DevBackendConfig = DevBackend{}

func (DevBackend) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

// GetSigningSecret is the HS256 secret the dev backend signs bearer tokens with
func (DevBackend) GetSigningSecret() string {
	return GetEnv(signingSecretVar, "dev-only-secret")
}

func (DevBackend) GetTokenTTL() time.Duration {
	return GetDuration(tokenTTLVar, time.Hour)
}

// GetSeedPassword is the password given to the seeded dev accounts
func (DevBackend) GetSeedPassword() string {
	return GetEnv(seedPasswordVar, "Passw0rd!")
}

// GetRevocationsRedisAddr is the Redis the dev backend shares logouts through.
// Empty keeps revocations in process memory.
func (DevBackend) GetRevocationsRedisAddr() string {
	return GetEnv(revocationsRedisVar, "")
}
