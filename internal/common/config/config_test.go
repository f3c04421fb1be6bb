package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, 3001, cfg.Server.Port)
	assert.Equal(t, "http://localhost:3000", cfg.Server.Origin)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "uploads", cfg.Uploads.Dir)
	assert.Empty(t, cfg.Email.SendGridAPIKey)
	assert.Equal(t, 10*time.Second, cfg.Email.SendTimeout)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DEBUG", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_DSN", "file:test.db")
	t.Setenv("UPLOADS_DIR", "content")
	t.Setenv("SENDGRID_API_KEY", "SG.test")
	t.Setenv("EMAIL_FROM", "hello@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.Equal(t, "content", cfg.Uploads.Dir)
	assert.Equal(t, "SG.test", cfg.Email.SendGridAPIKey)
	assert.Equal(t, "hello@example.com", cfg.Email.FromAddress)
}

func TestLoadInvalidValue(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
}
