package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requiredEnv() map[string]string {
	return map[string]string{
		"SESSION_SECRET":  "s3cret",
		"MEMBER_PASSCODE": "club",
		"ADMIN_PASSCODE":  "root",
	}
}

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(requiredEnv()))
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "members_only", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, SessionBackendRedis, cfg.Session.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Session.CookieSecure)
	assert.Equal(t, "club", cfg.MemberPasscode)
	assert.Equal(t, "root", cfg.AdminPasscode)
}

func TestLoadWith_Overrides(t *testing.T) {
	env := requiredEnv()
	env["PORT"] = "8081"
	env["ENV"] = "production"
	env["SESSION_BACKEND"] = "memory"
	env["SESSION_TTL"] = "30m"
	env["COOKIE_SECURE"] = "true"
	env["REDIS_DB"] = "2"

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.True(t, cfg.Session.CookieSecure)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestLoadWith_MissingSecrets(t *testing.T) {
	for _, key := range []string{"SESSION_SECRET", "MEMBER_PASSCODE", "ADMIN_PASSCODE"} {
		env := requiredEnv()
		delete(env, key)

		_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
		assert.Error(t, err, "missing %s should fail", key)
	}
}

func TestLoadWith_UnknownSessionBackend(t *testing.T) {
	env := requiredEnv()
	env["SESSION_BACKEND"] = "memcached"

	_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
	assert.ErrorContains(t, err, "SESSION_BACKEND")
}
