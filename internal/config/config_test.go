package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "TEMP_DIR", "FFMPEG_PATH", "FFPROBE_PATH", "FETCH_TIMEOUT",
		"STORAGE_ROOT", "BASE_URL", "S3_BUCKET", "S3_REGION", "S3_ENDPOINT",
		"AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "LOG_FORMAT", "LOG_LEVEL",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/tmp/composer", cfg.TempDir)
	assert.Equal(t, "./static", cfg.StorageRoot)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.S3Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("TEMP_DIR", "/var/tmp/composer")
	t.Setenv("STORAGE_ROOT", "/srv/static")
	t.Setenv("BASE_URL", "https://cdn.example.com")
	t.Setenv("FETCH_TIMEOUT", "10s")
	t.Setenv("FFMPEG_PATH", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("S3_BUCKET", "artifacts")
	t.Setenv("S3_REGION", "eu-west-1")
	t.Setenv("S3_ENDPOINT", "http://localhost:4566")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "/var/tmp/composer", cfg.TempDir)
	assert.Equal(t, "/srv/static", cfg.StorageRoot)
	assert.Equal(t, "https://cdn.example.com", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "artifacts", cfg.S3Bucket)
	assert.Equal(t, "eu-west-1", cfg.S3Region)
	assert.Equal(t, "http://localhost:4566", cfg.S3Endpoint)
	assert.True(t, cfg.S3Enabled())
}

func TestLoad_InvalidFetchTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("FETCH_TIMEOUT", "-5s")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchTimeoutInvalid)
}

func TestValidate(t *testing.T) {
	t.Run("empty storage root fails", func(t *testing.T) {
		cfg := &Config{StorageRoot: "  ", FetchTimeout: time.Second}
		assert.ErrorIs(t, cfg.Validate(), ErrStorageRootRequired)
	})

	t.Run("valid config passes", func(t *testing.T) {
		cfg := &Config{StorageRoot: "./static", FetchTimeout: time.Second}
		assert.NoError(t, cfg.Validate())
	})
}

func TestS3Enabled(t *testing.T) {
	t.Run("requires bucket and region", func(t *testing.T) {
		cfg := &Config{S3Bucket: "artifacts"}
		assert.False(t, cfg.S3Enabled())

		cfg.S3Region = "eu-west-1"
		assert.True(t, cfg.S3Enabled())
	})
}

func TestString_MasksSecrets(t *testing.T) {
	cfg := &Config{
		Port:               8080,
		StorageRoot:        "./static",
		AWSAccessKeyID:     "AKIA-secret",
		AWSSecretAccessKey: "very-secret",
	}

	s := cfg.String()
	assert.NotContains(t, s, "AKIA-secret")
	assert.NotContains(t, s, "very-secret")
}

func TestNewLogger(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		cfg := &Config{LogFormat: "json", LogLevel: "debug"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
	})

	t.Run("text format default", func(t *testing.T) {
		cfg := &Config{LogFormat: "text", LogLevel: "unknown"}
		logger := cfg.NewLogger()
		require.NotNil(t, logger)
	})
}
