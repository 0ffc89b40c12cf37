package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// chdirTemp moves into a fresh temp dir so no stray config.yaml is picked up.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Empty(t, cfg.Server.CORSOrigins)
	assert.Equal(t, "https://api.twitter.com", cfg.Twitter.BaseURL)
	assert.Equal(t, 20, cfg.Twitter.Count)
	assert.Equal(t, 30, cfg.Twitter.TimeoutSecs)
	assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocode.BaseURL)
	assert.Equal(t, "follower-map", cfg.Geocode.UserAgent)
	assert.InDelta(t, 1.0, cfg.Geocode.RatePerSec, 0.001)
	assert.Equal(t, "templates/friends.html", cfg.Map.OutputPath)
	assert.InDelta(t, 36.870190, cfg.Map.CenterLat, 1e-9)
	assert.InDelta(t, -29.421995, cfg.Map.CenterLon, 1e-9)
	assert.Equal(t, 3, cfg.Map.Zoom)
	assert.Equal(t, "Friends' locations", cfg.Map.LayerName)
	assert.Equal(t, "cadetblue", cfg.Map.MarkerColor)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
  cors_origins:
    - https://example.com
geocode:
  user_agent: alina
map:
  zoom: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "alina", cfg.Geocode.UserAgent)
	assert.Equal(t, 5, cfg.Map.Zoom)
	// Defaults still apply for unset values
	assert.Equal(t, 20, cfg.Twitter.Count)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
log:
  level: debug
twitter:
  count: 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("FOLLOWERMAP_LOG_LEVEL", "warn")
	t.Setenv("FOLLOWERMAP_TWITTER_COUNT", "15")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 15, cfg.Twitter.Count)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("FOLLOWERMAP_SERVER_PORT", "3000")
	t.Setenv("FOLLOWERMAP_TWITTER_TOKEN", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "secret", cfg.Twitter.Token)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [port"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	chdirTemp(t)
	t.Setenv("FOLLOWERMAP_GEOCODE_RATE_PER_SEC", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_per_sec")
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Server.Port = 5000
	cfg.Twitter.Count = 20
	cfg.Geocode.RatePerSec = 1
	cfg.Geocode.UserAgent = "follower-map"
	cfg.Map.OutputPath = "templates/friends.html"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "server.port"},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "server.port"},
		{name: "count zero", mutate: func(c *Config) { c.Twitter.Count = 0 }, wantErr: "twitter.count"},
		{name: "negative rate", mutate: func(c *Config) { c.Geocode.RatePerSec = -1 }, wantErr: "rate_per_sec"},
		{name: "no user agent", mutate: func(c *Config) { c.Geocode.UserAgent = "" }, wantErr: "user_agent"},
		{name: "no output path", mutate: func(c *Config) { c.Map.OutputPath = "" }, wantErr: "output_path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := validDefaults()
	cfg.Twitter.Token = "AAAA-secret"

	red := cfg.Redacted()
	assert.Equal(t, "****", red.Twitter.Token)
	assert.Equal(t, "AAAA-secret", cfg.Twitter.Token, "source config must be untouched")

	cfg.Twitter.Token = ""
	assert.Empty(t, cfg.Redacted().Twitter.Token)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
