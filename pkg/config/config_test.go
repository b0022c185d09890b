package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, time.Hour, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.Documents.MaxFileSizeBytes)
	assert.Equal(t, []string{"application/pdf"}, cfg.Documents.AllowedMIMEs)
	assert.False(t, cfg.Dashboard.CacheEnabled)
}

func TestOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("JWT_EXPIRATION", "2h")
	v.Set("DASHBOARD_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	cfg := fromViper(v)

	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	require.Len(t, cfg.CORS.AllowedOrigins, 2)
	assert.Equal(t, "http://b.test", cfg.CORS.AllowedOrigins[1])
}

func TestCleanupDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)

	assert.Equal(t, 2, cfg.Cleanup.Workers)
	assert.Equal(t, 64, cfg.Cleanup.BufferSize)
	assert.Equal(t, 3, cfg.Cleanup.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Cleanup.RetryDelay)
}

func TestValidateRejectsDevSecretsInProduction(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg := fromViper(v)
	require.NoError(t, cfg.Validate())

	cfg.Env = EnvProduction
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWT.Secret = "s3cret"
	assert.ErrorContains(t, cfg.Validate(), "DOCUMENTS_SIGNED_URL_SECRET")

	cfg.Documents.SignedURLSecret = "another"
	assert.NoError(t, cfg.Validate())
}
