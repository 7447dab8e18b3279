package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("DB_NAME", "newsdesk_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("TOKEN_TTL", "48h")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, "newsdesk_test", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 48*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("TOKEN_TTL", "soon")
	t.Setenv("MAX_UPLOAD_SIZE", "huge")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 720*time.Hour, cfg.TokenTTL)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadSize)
}
