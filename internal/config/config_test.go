package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func baseEnv() map[string]string {
	return map[string]string{
		"APP_ENV":                "dev",
		"APP_PORT":               "8080",
		"DB_DRIVER":              "sqlite",
		"JWT_SECRET":             "s3cret",
		"ACCESS_TOKEN_TTL_MIN":   "15",
		"REFRESH_TOKEN_TTL_DAYS": "7",
		"BCRYPT_COST":            "10",
	}
}

func TestLoadFrom_SQLiteDefaults(t *testing.T) {
	cfg, err := LoadFrom(lookupFrom(baseEnv()))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "hotel.db", cfg.DBPath)
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.Equal(t, 10*time.Second, cfg.RoomLockTTL)
	assert.Equal(t, 32, cfg.RoomLockTries)
	assert.Equal(t, "", cfg.APIPrefix)
	assert.False(t, cfg.EventsEnabled)
	assert.True(t, cfg.IsDev())
}

func TestLoadFrom_MySQLNeedsConnectionVars(t *testing.T) {
	env := baseEnv()
	env["DB_DRIVER"] = "mysql"
	_, err := LoadFrom(lookupFrom(env))
	require.Error(t, err)
	for _, k := range []string{"DB_USER", "DB_HOST", "DB_PORT", "DB_NAME"} {
		assert.Contains(t, err.Error(), k)
	}

	env["DB_USER"], env["DB_HOST"], env["DB_PORT"], env["DB_NAME"] = "app", "127.0.0.1", "3306", "hotel"
	cfg, err := LoadFrom(lookupFrom(env))
	require.NoError(t, err)
	assert.Equal(t, "hotel", cfg.DBName)
}

func TestLoadFrom_ReportsBadValues(t *testing.T) {
	env := baseEnv()
	delete(env, "JWT_SECRET")
	env["BCRYPT_COST"] = "ten"
	env["ROOM_LOCK_TTL"] = "soon"
	env["DB_DRIVER"] = "oracle"
	_, err := LoadFrom(lookupFrom(env))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "BCRYPT_COST")
	assert.Contains(t, err.Error(), "ROOM_LOCK_TTL")
	assert.Contains(t, err.Error(), "oracle")
}

func TestLoadFrom_OptionalOverrides(t *testing.T) {
	env := baseEnv()
	env["API_PREFIX"] = "api/v1/"
	env["EVENTS_ENABLED"] = "yes"
	env["AMQP_URL"] = "amqp://u:p@mq:5672/"
	env["SEED_ON_START"] = "1"
	cfg, err := LoadFrom(lookupFrom(env))
	require.NoError(t, err)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.True(t, cfg.EventsEnabled)
	assert.True(t, cfg.SeedOnStart)
	assert.Equal(t, "amqp://u:p@mq:5672/", cfg.AMQPURL)

	env["RABBITMQ_URL"] = "amqp://rabbit/"
	cfg, err = LoadFrom(lookupFrom(env))
	require.NoError(t, err)
	assert.Equal(t, "amqp://rabbit/", cfg.AMQPURL)
}

func TestRateLimitNormalize(t *testing.T) {
	cfg := RateLimitConfig{RefillInterval: 2 * time.Second}.Normalize()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("ON", false))
	assert.False(t, parseBool("no", true))
	assert.True(t, parseBool("maybe", true))
}
