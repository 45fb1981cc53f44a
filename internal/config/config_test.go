package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/adpulse/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "ads-manager", cfg.Import.Profile)
	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, "postgres://postgres:@localhost:5432/adpulse?sslmode=disable", cfg.ConnectionString())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("IMPORT_PROFILE", "active-campaigns")
	t.Setenv("IMPORT_HEADER_MATCH", "exact")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DB_NAME", "kpi")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "active-campaigns", cfg.Import.Profile)
	assert.Equal(t, "exact", cfg.Import.HeaderMatch)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Contains(t, cfg.ConnectionString(), "/kpi?")
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := config.Load()
	assert.Error(t, err)
}
