package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost:9000", cfg.MinIO.Endpoint)
	assert.Equal(t, "catalog:artists", cfg.Catalog.ArtistsKey)
	assert.Equal(t, "catalog:actors", cfg.Catalog.ActorsKey)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9999")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.App.Port)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.True(t, cfg.MinIO.UseSSL)
}

func TestValidateRejectsSharedDocumentKey(t *testing.T) {
	t.Setenv("CATALOG_ARTISTS_KEY", "catalog:same")
	t.Setenv("CATALOG_ACTORS_KEY", "catalog:same")

	_, err := Load()
	require.Error(t, err)
}

func TestValidateRejectsDefaultCredentialsInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.Error(t, err)
}
