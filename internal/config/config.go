// Package config loads runtime configuration from an optional file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CREATIVE_FAN_OUT.
const EnvPrefix = "CREATIVE"

// Timeouts bounds every external call.
type Timeouts struct {
	Fetch    time.Duration `mapstructure:"fetch"`
	Browser  time.Duration `mapstructure:"browser"`
	Text     time.Duration `mapstructure:"text"`
	Image    time.Duration `mapstructure:"image"`
	Analysis time.Duration `mapstructure:"analysis"`
	Render   time.Duration `mapstructure:"render"`
}

// RateLimit paces calls to one provider.
type RateLimit struct {
	PerSecond float64 `mapstructure:"per_second"`
	Burst     int     `mapstructure:"burst"`
}

// Config is the process configuration.
type Config struct {
	// Credentials and endpoints
	GeminiAPIKey     string `mapstructure:"gemini_api_key"`
	SearchAPIKey     string `mapstructure:"google_search_api_key"`
	SearchCX         string `mapstructure:"google_search_cx"`
	RenderServiceURL string `mapstructure:"render_service_url"`
	RenderAPIKey     string `mapstructure:"render_api_key"`
	DatabaseURL      string `mapstructure:"database_url"`
	RedisURL         string `mapstructure:"redis_url"`

	// Models
	TextModel   string `mapstructure:"text_model"`
	VisionModel string `mapstructure:"vision_model"`
	ImageModel  string `mapstructure:"image_model"`

	// Pipeline
	Timeouts            Timeouts      `mapstructure:"timeouts"`
	FanOut              int           `mapstructure:"fan_out"`
	ImageConcurrency    int           `mapstructure:"image_concurrency"`
	DefaultVariantCount int           `mapstructure:"default_variant_count"`
	CopyVariantCount    int           `mapstructure:"copy_variant_count"`
	UseBrowser          bool          `mapstructure:"use_browser"`
	GuessWebsite        bool          `mapstructure:"guess_website"`
	AnalyzeImages       bool          `mapstructure:"analyze_images"`
	BrandCacheTTL       time.Duration `mapstructure:"brand_cache_ttl"`

	// Provider pacing
	TextRate   RateLimit `mapstructure:"text_rate"`
	ImageRate  RateLimit `mapstructure:"image_rate"`
	FetchRate  RateLimit `mapstructure:"fetch_rate"`
	SearchRate RateLimit `mapstructure:"search_rate"`

	// Process
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	Port      int    `mapstructure:"port"`
	Metrics   bool   `mapstructure:"metrics"`

	// HTTP client limits; the whitelist is a comma-separated list of IPs
	RateLimitEnabled   bool   `mapstructure:"rate_limit_enabled"`
	RateLimitWhitelist string `mapstructure:"rate_limit_whitelist"`
}

// credentialEnv maps keys to the plain environment names they are also read from.
var credentialEnv = map[string]string{
	"gemini_api_key":        "GEMINI_API_KEY",
	"google_search_api_key": "GOOGLE_SEARCH_API_KEY",
	"google_search_cx":      "GOOGLE_SEARCH_CX",
	"render_service_url":    "RENDER_SERVICE_URL",
	"render_api_key":        "RENDER_API_KEY",
	"database_url":          "DATABASE_URL",
	"redis_url":             "REDIS_URL",
}

// Load reads configuration. Values are layered: defaults, then the file at
// path (JSON, YAML or TOML by extension; skipped when path is empty), then
// environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, plain := range credentialEnv {
		if err := v.BindEnv(key, EnvPrefix+"_"+strings.ToUpper(key), plain); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration without file or environment input.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("text_model", "gemini-2.5-flash")
	v.SetDefault("vision_model", "gemini-2.5-flash")
	v.SetDefault("image_model", "gemini-2.5-flash-image")

	v.SetDefault("timeouts.fetch", "20s")
	v.SetDefault("timeouts.browser", "30s")
	v.SetDefault("timeouts.text", "45s")
	v.SetDefault("timeouts.image", "120s")
	v.SetDefault("timeouts.analysis", "30s")
	v.SetDefault("timeouts.render", "60s")

	v.SetDefault("fan_out", 4)
	v.SetDefault("image_concurrency", 4)
	v.SetDefault("default_variant_count", 3)
	v.SetDefault("copy_variant_count", 5)
	v.SetDefault("use_browser", false)
	v.SetDefault("guess_website", true)
	v.SetDefault("analyze_images", true)
	v.SetDefault("brand_cache_ttl", "2160h")

	v.SetDefault("text_rate.per_second", 2.0)
	v.SetDefault("text_rate.burst", 5)
	v.SetDefault("image_rate.per_second", 0.5)
	v.SetDefault("image_rate.burst", 2)
	v.SetDefault("fetch_rate.per_second", 5.0)
	v.SetDefault("fetch_rate.burst", 5)
	v.SetDefault("search_rate.per_second", 1.0)
	v.SetDefault("search_rate.burst", 1)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("port", 8080)
	v.SetDefault("metrics", true)
	v.SetDefault("rate_limit_enabled", true)
	v.SetDefault("rate_limit_whitelist", "")

	for key := range credentialEnv {
		v.SetDefault(key, "")
	}
}

// Validate checks that the configuration has usable values. Missing
// credentials are not errors: the matching provider degrades instead.
func (c *Config) Validate() error {
	var errs []error
	timeouts := map[string]time.Duration{
		"timeouts.fetch":    c.Timeouts.Fetch,
		"timeouts.browser":  c.Timeouts.Browser,
		"timeouts.text":     c.Timeouts.Text,
		"timeouts.image":    c.Timeouts.Image,
		"timeouts.analysis": c.Timeouts.Analysis,
		"timeouts.render":   c.Timeouts.Render,
	}
	for _, name := range []string{"timeouts.fetch", "timeouts.browser", "timeouts.text", "timeouts.image", "timeouts.analysis", "timeouts.render"} {
		if timeouts[name] <= 0 {
			errs = append(errs, fmt.Errorf("config error: '%s' must be positive", name))
		}
	}
	if c.FanOut <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'fan_out' must be positive"))
	}
	if c.ImageConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'image_concurrency' must be positive"))
	}
	if c.DefaultVariantCount <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'default_variant_count' must be positive"))
	}
	if c.CopyVariantCount <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'copy_variant_count' must be positive"))
	}
	if c.BrandCacheTTL < 0 {
		errs = append(errs, fmt.Errorf("config error: 'brand_cache_ttl' must be non-negative"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'port' must be between 1 and 65535"))
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("config error: 'log_format' must be json or console"))
	}
	return errors.Join(errs...)
}
