package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starforge/pkg/models"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	t.Setenv("STARFORGE_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, models.DefaultLayers(), cfg.Layers)
	assert.Equal(t, 5, cfg.Validation.SampleKeys)
	assert.False(t, Exists())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("STARFORGE_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	cfg := &models.Config{
		Snowflake: models.Snowflake{
			Account:   "xy12345.us-east-1",
			Username:  "etl_user",
			Role:      "SYSADMIN",
			Warehouse: "COMPUTE_WH",
			Database:  "DWH",
			Timeout:   "45s",
		},
		Layers: models.Layers{Raw: "BRONZE", Conformed: "SILVER", Mart: "GOLD"},
		Pipeline: models.Pipeline{
			Parallel:  true,
			BatchSize: 250,
		},
		Validation: models.Validation{Enabled: true, SampleKeys: 3},
	}
	require.NoError(t, Save(cfg))
	assert.True(t, Exists())

	loaded, err := Load()
	require.NoError(t, err)

	assert.Equal(t, cfg.Snowflake, loaded.Snowflake)
	assert.Equal(t, cfg.Layers, loaded.Layers)
	assert.Equal(t, cfg.Pipeline, loaded.Pipeline)
	assert.Equal(t, cfg.Validation, loaded.Validation)
}

func TestLoadFillsMissingLayerNames(t *testing.T) {
	t.Setenv("STARFORGE_CONFIG", filepath.Join(t.TempDir(), "config.yaml"))

	require.NoError(t, Save(&models.Config{
		Layers: models.Layers{Conformed: "SILVER"},
	}))

	loaded, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "RAW", loaded.Layers.Raw)
	assert.Equal(t, "SILVER", loaded.Layers.Conformed)
	assert.Equal(t, "MART", loaded.Layers.Mart)
}

func TestConfigFileWrittenWithOwnerOnlyPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("STARFORGE_CONFIG", path)

	require.NoError(t, Save(&models.Config{}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestGetConfigFileHonorsEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alt.yaml")
	t.Setenv("STARFORGE_CONFIG", path)

	assert.Equal(t, path, GetConfigFile())
	assert.Equal(t, filepath.Dir(path), GetConfigPath())
}
