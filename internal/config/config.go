package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Twitter TwitterConfig `yaml:"twitter" mapstructure:"twitter"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Map     MapConfig     `yaml:"map" mapstructure:"map"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the web server.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// TwitterConfig configures the follower API client.
type TwitterConfig struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Count       int    `yaml:"count" mapstructure:"count"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	// Token is only used by the run command; the web form always supplies its own.
	Token string `yaml:"token" mapstructure:"token"`
}

// GeocodeConfig configures the Nominatim client.
type GeocodeConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	UserAgent   string  `yaml:"user_agent" mapstructure:"user_agent"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// MapConfig configures map rendering.
type MapConfig struct {
	OutputPath  string  `yaml:"output_path" mapstructure:"output_path"`
	CenterLat   float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon   float64 `yaml:"center_lon" mapstructure:"center_lon"`
	Zoom        int     `yaml:"zoom" mapstructure:"zoom"`
	LayerName   string  `yaml:"layer_name" mapstructure:"layer_name"`
	MarkerColor string  `yaml:"marker_color" mapstructure:"marker_color"`
	TileURL     string  `yaml:"tile_url" mapstructure:"tile_url"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FOLLOWERMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("twitter.base_url", "https://api.twitter.com")
	v.SetDefault("twitter.count", 20)
	v.SetDefault("twitter.timeout_secs", 30)
	v.SetDefault("twitter.token", "")
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.user_agent", "follower-map")
	v.SetDefault("geocode.rate_per_sec", 1.0)
	v.SetDefault("geocode.timeout_secs", 10)
	v.SetDefault("map.output_path", "templates/friends.html")
	v.SetDefault("map.center_lat", 36.870190)
	v.SetDefault("map.center_lon", -29.421995)
	v.SetDefault("map.zoom", 3)
	v.SetDefault("map.layer_name", "Friends' locations")
	v.SetDefault("map.marker_color", "cadetblue")
	v.SetDefault("map.tile_url", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would otherwise fail late, mid-request.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return eris.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Twitter.Count <= 0 {
		return eris.Errorf("config: twitter.count must be positive, got %d", c.Twitter.Count)
	}
	if c.Geocode.RatePerSec <= 0 {
		return eris.Errorf("config: geocode.rate_per_sec must be positive, got %g", c.Geocode.RatePerSec)
	}
	if c.Geocode.UserAgent == "" {
		return eris.New("config: geocode.user_agent is required")
	}
	if c.Map.OutputPath == "" {
		return eris.New("config: map.output_path is required")
	}
	return nil
}

// Redacted returns a copy with secrets masked, for display.
func (c Config) Redacted() Config {
	if c.Twitter.Token != "" {
		c.Twitter.Token = "****"
	}
	return c
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
