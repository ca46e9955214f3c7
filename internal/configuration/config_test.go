package configuration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, "uploads", cfg.Upload.Namespace)
	assert.Contains(t, cfg.Upload.AllowedTypes, "image/jpeg")
	assert.Contains(t, cfg.Upload.AllowedTypes, "application/pdf")
	assert.Contains(t, cfg.Upload.AllowedTypes, "text/plain")
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "vault_session", cfg.Session.CookieName)
	assert.Empty(t, cfg.NATSURL)
	assert.Empty(t, cfg.CLAMAVURL)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("UPLOAD_MAX_BYTES", "2097152")
	t.Setenv("UPLOAD_ALLOWED_TYPES", "image/png, application/pdf")
	t.Setenv("UPLOAD_NAMESPACE", "attachments")
	t.Setenv("SESSION_TTL", "24h")
	t.Setenv("DB_NAME", "other")

	cfg := Load()

	assert.Equal(t, int64(2<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"image/png", "application/pdf"}, cfg.Upload.AllowedTypes)
	assert.Equal(t, "attachments", cfg.Upload.Namespace)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "other", cfg.Database.DBName)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("UPLOAD_MAX_BYTES", "not-a-number")
	t.Setenv("SESSION_TTL", "-5m")

	cfg := Load()

	assert.Equal(t, int64(5<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
}

func TestConnectionString(t *testing.T) {
	c := DatabaseConfig{
		Host:     "db",
		Port:     "5433",
		User:     "u",
		Password: "p",
		DBName:   "vault",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5433/vault?sslmode=disable", c.ConnectionString())
}
