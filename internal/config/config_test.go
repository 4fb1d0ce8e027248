package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 20*time.Second, cfg.Timeouts.Fetch)
	assert.Equal(t, 120*time.Second, cfg.Timeouts.Image)
	assert.Equal(t, 4, cfg.FanOut)
	assert.Equal(t, 3, cfg.DefaultVariantCount)
	assert.Equal(t, 90*24*time.Hour, cfg.BrandCacheTTL)
	assert.Equal(t, 0.5, cfg.ImageRate.PerSecond)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.ImageModel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	content := `{
		"fan_out": 8,
		"timeouts": {"text": "10s"},
		"log_format": "json",
		"gemini_api_key": "from-file"
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("CREATIVE_FAN_OUT", "2")
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("GOOGLE_SEARCH_CX", "cx-123")
	t.Setenv("CREATIVE_TIMEOUTS_RENDER", "5s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.FanOut)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Text)
	assert.Equal(t, 5*time.Second, cfg.Timeouts.Render)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "from-env", cfg.GeminiAPIKey)
	assert.Equal(t, "cx-123", cfg.SearchCX)
}

func TestLoad_FileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{ invalid json }`), 0644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero fan out", func(c *Config) { c.FanOut = 0 }, "fan_out"},
		{"negative timeout", func(c *Config) { c.Timeouts.Render = -time.Second }, "timeouts.render"},
		{"bad port", func(c *Config) { c.Port = 70000 }, "port"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"negative ttl", func(c *Config) { c.BrandCacheTTL = -time.Hour }, "brand_cache_ttl"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
