package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dropbox", cfg.Storage.Provider)
	assert.Equal(t, 25, cfg.Sync.BatchSize)
	assert.Equal(t, time.Second, cfg.Sync.LinkDelay)
	assert.Equal(t, 5*time.Second, cfg.Sync.ErrorBackoff)
	assert.Equal(t, 5, cfg.Sync.MaxConsecutiveFailures)
	assert.Equal(t, 100, cfg.Sync.AsyncThreshold)
	assert.Contains(t, cfg.Sync.Extensions, ".jpg")
	assert.Equal(t, "6MM", cfg.Sync.PrimaryMarker)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "SYNC_BATCH_SIZE=10\nSYNC_ROOTS=/Products,/Archive Shots\nSTORAGE_PROVIDER=s3\nSTORAGE_PUBLIC_BASE_URL=https://cdn.example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("SYNC_BATCH_SIZE")
		os.Unsetenv("SYNC_ROOTS")
		os.Unsetenv("STORAGE_PROVIDER")
		os.Unsetenv("STORAGE_PUBLIC_BASE_URL")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Sync.BatchSize)
	assert.Equal(t, []string{"/Products", "/Archive Shots"}, cfg.Sync.Roots)
	assert.Equal(t, "s3", cfg.Storage.Provider)
	assert.Equal(t, "https://cdn.example.com", cfg.Storage.PublicBaseURL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want string
	}{
		{"UnknownProvider", "STORAGE_PROVIDER=ftp\n", "unknown storage provider"},
		{"S3WithoutPublicBaseURL", "STORAGE_PROVIDER=s3\n", "public_base_url"},
		{"RelativeRoot", "SYNC_ROOTS=Products\n", "must be absolute"},
		{"ZeroBatch", "SYNC_BATCH_SIZE=0\n", "batch_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(tt.env), 0o600))
			t.Cleanup(func() {
				os.Unsetenv("STORAGE_PROVIDER")
				os.Unsetenv("SYNC_ROOTS")
				os.Unsetenv("SYNC_BATCH_SIZE")
			})

			_, err := LoadConfig(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_NormalisesExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SYNC_WEB_EXTENSIONS=JPG, .Png\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SYNC_WEB_EXTENSIONS") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{".jpg", ".png"}, cfg.Sync.WebExtensions)
}
