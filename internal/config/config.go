package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Edufund  EdufundConfig  `mapstructure:"edufund"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Download DownloadConfig `mapstructure:"download"`
	Warm     WarmConfig     `mapstructure:"warm"`
	Server   ServerConfig   `mapstructure:"server"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type APIConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	KeyID      string `mapstructure:"key_id"`
	SecretKey  string `mapstructure:"secret_key"`
	Feed       string `mapstructure:"feed"`
	Adjustment string `mapstructure:"adjustment"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
	RetryCount int    `mapstructure:"retry_count"`
	RetryDelay int    `mapstructure:"retry_delay_sec"`
}

// EdufundConfig carries the API_KEY variable. Nothing in the bar pipeline sends it.
type EdufundConfig struct {
	APIKey string `mapstructure:"api_key"`
}

type CacheConfig struct {
	Directory   string `mapstructure:"directory"`
	KeyStrategy string `mapstructure:"key_strategy"` // "count" or "symbols"
}

type DownloadConfig struct {
	RatePerSecond int `mapstructure:"rate_per_second"`
	PageLimit     int `mapstructure:"page_limit"`
}

type WarmConfig struct {
	Workers  int           `mapstructure:"workers"`
	Requests []WarmRequest `mapstructure:"requests"`
}

type WarmRequest struct {
	Tickers   []string `mapstructure:"tickers"`
	Years     int      `mapstructure:"years"`
	TimeFrame string   `mapstructure:"timeframe"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// NotifyConfig configures ntfy messages sent after a warm batch.
type NotifyConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Server   string `mapstructure:"server"`
	Topic    string `mapstructure:"topic"`
	Priority string `mapstructure:"priority"` // min, low, default, high, urgent
	Tags     string `mapstructure:"tags"`     // comma separated emoji tags
	Token    string `mapstructure:"token"`
}

type LoggingConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Directory string `mapstructure:"directory"`
	Level     string `mapstructure:"level"`
}

func Load(configPath string) (*Config, error) {
	loadDotenv()

	v := viper.New()

	// Set defaults
	v.SetDefault("api.base_url", "https://data.alpaca.markets")
	v.SetDefault("api.feed", "iex")
	v.SetDefault("api.adjustment", "raw")
	v.SetDefault("api.timeout_sec", 60)
	v.SetDefault("api.retry_count", 0)
	v.SetDefault("api.retry_delay_sec", 2)
	v.SetDefault("cache.directory", DefaultCacheDir)
	v.SetDefault("cache.key_strategy", KeyStrategyCount)
	v.SetDefault("download.rate_per_second", 3)
	v.SetDefault("download.page_limit", 10000)
	v.SetDefault("warm.workers", 2)
	v.SetDefault("server.port", "8080")
	v.SetDefault("notify.enabled", false)
	v.SetDefault("notify.server", "https://ntfy.sh")
	v.SetDefault("notify.priority", "default")
	v.SetDefault("notify.tags", "chart_with_upwards_trend")
	v.SetDefault("logging.enabled", false)
	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.level", "info")

	// Environment variable support
	v.SetEnvPrefix("BARCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Credentials keep their conventional names
	_ = v.BindEnv("api.key_id", "ALPACA_API_KEY")
	_ = v.BindEnv("api.secret_key", "ALPACA_SECRET_KEY")
	_ = v.BindEnv("edufund.api_key", "API_KEY")
	_ = v.BindEnv("notify.enabled", "BARCACHE_NOTIFY_ENABLED", "NTFY_ENABLED")
	_ = v.BindEnv("notify.server", "BARCACHE_NOTIFY_SERVER", "NTFY_SERVER")
	_ = v.BindEnv("notify.topic", "BARCACHE_NOTIFY_TOPIC", "NTFY_TOPIC")
	_ = v.BindEnv("notify.priority", "BARCACHE_NOTIFY_PRIORITY", "NTFY_PRIORITY")
	_ = v.BindEnv("notify.tags", "BARCACHE_NOTIFY_TAGS", "NTFY_TAGS")
	_ = v.BindEnv("notify.token", "BARCACHE_NOTIFY_TOKEN", "NTFY_TOKEN")

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("default")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks structural settings. Missing credentials are not an error
// here; the API client reports them when a request is actually made.
func (c *Config) Validate() error {
	if c.Download.RatePerSecond < 1 {
		return fmt.Errorf("rate_per_second must be >= 1")
	}
	if c.Download.PageLimit < 1 {
		return fmt.Errorf("page_limit must be >= 1")
	}
	if c.Warm.Workers < 1 {
		return fmt.Errorf("workers must be >= 1")
	}
	if c.Cache.Directory == "" {
		return fmt.Errorf("cache directory is required")
	}
	if err := c.Notify.Validate(); err != nil {
		return err
	}
	return ValidateSettings(c.API, c.Cache, c.Warm.Requests)
}

// Validate checks the notify section when it is enabled.
func (n *NotifyConfig) Validate() error {
	if !n.Enabled {
		return nil
	}
	if n.Topic == "" {
		return fmt.Errorf("notify.topic is required when notify.enabled=true")
	}
	if !ValidPriorities[n.Priority] {
		return fmt.Errorf("invalid notify.priority: %s (valid: %s)", n.Priority, sortedKeys(ValidPriorities))
	}
	return nil
}

// HasCredentials reports whether both Alpaca keys are set.
func (c *APIConfig) HasCredentials() bool {
	return c.KeyID != "" && c.SecretKey != ""
}
