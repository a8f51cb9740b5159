package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

// setRequired fills the env vars Load refuses to run without.
func setRequired(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"APP_ENV":      "test",
		"APP_PORT":     "8080",
		"DB_USER":      "app",
		"DB_HOST":      "localhost",
		"DB_PORT":      "3306",
		"DB_NAME":      "municipality",
		"JWT_SECRET":   "s3cret",
		"JWT_ISSUER":   "municipality-web",
		"JWT_AUDIENCE": "municipality-frontend",
	} {
		t.Setenv(k, v)
	}
}

func TestLoad_OptionalDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.Equal(t, 35, cfg.RefreshTTLDays)
	assert.Equal(t, bcrypt.DefaultCost, cfg.BcryptCost)
	assert.True(t, cfg.ReuseRevokeAll)
}

func TestLoad_OptionalOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "5")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("REUSE_REVOKE_ALL", "false")

	cfg := Load()
	assert.Equal(t, 5, cfg.AccessTTLMin)
	assert.Equal(t, 7, cfg.RefreshTTLDays)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.False(t, cfg.ReuseRevokeAll)
}
