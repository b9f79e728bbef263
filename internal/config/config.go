package config

import "time"

type Config interface {
	EnvConfig
	SessionConfig
	DevBackendConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

// SessionConfig is read once at console startup.
type SessionConfig interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() time.Duration
	GetTokenStoreKind() string
	GetTokenKey() string
	GetTokenFile() string
	GetRedisAddr() string
}

type DevBackendConfig interface {
	GetPort() string
	GetSigningSecret() string
	GetTokenTTL() time.Duration
	GetSeedPassword() string
	GetRevocationsRedisAddr() string
}

type mainConfig struct {
	EnvVars
	Session
	DevBackend
}

func New() Config {
	return mainConfig{}
}
