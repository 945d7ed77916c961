package auth

import (
	"errors"
	"os"
	"time"
)

const defaultTokenTTL = 7 * 24 * time.Hour

type Config struct {
	Secret string
	TTL    time.Duration
}

// ConfigFromEnv reads token signing config from environment variables.
// JWT_SECRET is mandatory: running with a baked-in default secret makes
// every issued token forgeable, so the process refuses to start without it.
func ConfigFromEnv() (Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, errors.New("JWT_SECRET is not set")
	}
	ttl := defaultTokenTTL
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		}
	}
	return Config{Secret: secret, TTL: ttl}, nil
}
