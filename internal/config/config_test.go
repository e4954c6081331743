package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"PORT", "DATABASE_URL", "JWT_SECRET", "JWT_EXPIRY_HOURS", "CORS_ORIGINS", "ENV", "TRUSTED_PROXIES", "ADMIN_PASSWORD"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8001", cfg.HTTP.Port)
	assert.Equal(t, []string{"*"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, "portal.sqlite", cfg.Database.URL)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, "admin@gurukulschool.net", cfg.Seed.AdminEmail)
	assert.Empty(t, cfg.HTTP.TrustedProxies)
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://gurukulschool.net")
	t.Setenv("JWT_EXPIRY_HOURS", "2")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.0.1.0/24")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTP.Port)
	assert.Equal(t, []string{"http://localhost:3000", "https://gurukulschool.net"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.Auth.JWTExpiry)
	assert.Equal(t, []string{"10.0.0.1", "10.0.1.0/24"}, cfg.HTTP.TrustedProxies)
}

func TestLoad_InvalidExpiry(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("JWT_EXPIRY_HOURS", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_ProductionRequiresAdminPassword(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "a-real-secret")

	t.Setenv("ADMIN_PASSWORD", "")
	_, err := Load()
	assert.ErrorContains(t, err, "ADMIN_PASSWORD")

	t.Setenv("ADMIN_PASSWORD", "admin123")
	_, err = Load()
	assert.ErrorContains(t, err, "ADMIN_PASSWORD")

	t.Setenv("ADMIN_PASSWORD", "s3cret-pass")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "s3cret-pass", cfg.Seed.AdminPassword)
}
