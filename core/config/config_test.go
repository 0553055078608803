package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "localhost:9000", cfg.Storage.Endpoint)
	assert.Equal(t, 3, cfg.Storage.ListRetries)
	assert.Equal(t, 5, cfg.Validation.SampleSize)
	assert.Equal(t, 4, cfg.Validation.Workers)
	assert.Equal(t, "restore-test/", cfg.Validation.RestorePrefix)
	assert.Equal(t, "s3-backup-validation-report.json", cfg.Validation.ReportFile)
	assert.Equal(t, "S3 Backup Validation", cfg.Validation.TestName)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("VALIDATION_SOURCE_BUCKET", "primary")
	t.Setenv("VALIDATION_SAMPLE_SIZE", "12")
	t.Setenv("STORAGE_USE_SSL", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "primary", cfg.Validation.SourceBucket)
	assert.Equal(t, 12, cfg.Validation.SampleSize)
	assert.True(t, cfg.Storage.UseSSL)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	content := "VALIDATION_DESTINATION_BUCKET=replica\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("VALIDATION_DESTINATION_BUCKET")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "replica", cfg.Validation.DestinationBucket)
	assert.Equal(t, "debug", cfg.Log.Level)
}
