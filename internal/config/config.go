package config

import (
	"fmt"
	"os"
	"time"

	"screener/internal/daemon"
	"screener/internal/logging"
	"screener/internal/provider"
	"screener/internal/score"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config represents the application configuration
type Config struct {
	API            APIConfig      `yaml:"api"`
	Scanner        ScannerConfig  `yaml:"scanner"`
	Indicators     score.Params   `yaml:"indicators"`
	ZigZag         ZigZagConfig   `yaml:"zigzag"`
	Cache          CacheConfig    `yaml:"cache"`
	Server         ServerConfig   `yaml:"server"`
	Watch          daemon.Config  `yaml:"watch"`
	Log            logging.Config `yaml:"log"`
	Profiles       score.Profiles `yaml:"profiles"`
	DefaultProfile string         `yaml:"default_profile" default:"Balanced" validate:"required"`
}

// APIConfig holds API provider configurations
type APIConfig struct {
	Finnhub      ProviderConfig `yaml:"finnhub"`
	AlphaVantage ProviderConfig `yaml:"alphavantage"`
	Yahoo        YahooConfig    `yaml:"yahoo"`
	Timeout      time.Duration  `yaml:"timeout" default:"30s" validate:"gt=0"`
}

// ProviderConfig holds individual provider settings
type ProviderConfig struct {
	Key       string `yaml:"key"`
	RateLimit int    `yaml:"rate_limit" validate:"gte=1"` // requests per minute
}

// YahooConfig toggles the keyless Yahoo provider
type YahooConfig struct {
	Enabled bool `yaml:"enabled" default:"true"`
}

// ScannerConfig holds scanner settings
type ScannerConfig struct {
	Delay       time.Duration `yaml:"delay" default:"1200ms" validate:"gte=0"` // spacing between symbol fetches
	MaxSymbols  int           `yaml:"max_symbols" default:"5" validate:"gte=1"`
	MinBars     int           `yaml:"min_bars" default:"50" validate:"gte=1"`
	HistoryDays int           `yaml:"history_days" default:"120" validate:"gtefield=MinBars"` // trading days requested per symbol
}

// ZigZagConfig holds pivot detection settings
type ZigZagConfig struct {
	Threshold float64 `yaml:"threshold" default:"5" validate:"gt=0,lte=100"` // percent
}

// CacheConfig selects the candle cache backend
type CacheConfig struct {
	Backend string               `yaml:"backend" default:"memory" validate:"oneof=none memory redis"`
	TTL     time.Duration        `yaml:"ttl" default:"15m" validate:"gte=0"`
	Redis   provider.RedisConfig `yaml:"redis"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port int `yaml:"port" default:"8080" validate:"gte=1,lte=65535"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	cfg := &Config{
		API: APIConfig{
			Finnhub: ProviderConfig{
				Key:       os.Getenv("FINNHUB_API_KEY"),
				RateLimit: 60,
			},
			AlphaVantage: ProviderConfig{
				Key:       os.Getenv("ALPHAVANTAGE_API_KEY"),
				RateLimit: 5,
			},
		},
		Indicators: score.DefaultParams(),
		Profiles:   score.DefaultProfiles(),
	}
	if err := defaults.Set(cfg); err != nil {
		// only reachable with a malformed default tag
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		data = nil // Use defaults if file doesn't exist
	}

	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// user profiles extend the built-ins
	if cfg.Profiles == nil {
		cfg.Profiles = score.Profiles{}
	}
	for name, w := range score.DefaultProfiles() {
		if _, ok := cfg.Profiles[name]; !ok {
			cfg.Profiles[name] = w
		}
	}

	// Override with environment variables if set
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		cfg.API.Finnhub.Key = key
	}
	if key := os.Getenv("ALPHAVANTAGE_API_KEY"); key != "" {
		cfg.API.AlphaVantage.Key = key
	}
	if addr := os.Getenv("SCREENER_REDIS_ADDR"); addr != "" {
		cfg.Cache.Redis.Addr = addr
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.API.Finnhub.Key == "" && c.API.AlphaVantage.Key == "" && !c.API.Yahoo.Enabled {
		return fmt.Errorf("no data provider: set FINNHUB_API_KEY or ALPHAVANTAGE_API_KEY, or enable yahoo")
	}
	if err := c.Profiles.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.Profiles.Get(c.DefaultProfile); err != nil {
		return fmt.Errorf("invalid default_profile: %w", err)
	}
	return nil
}

// ScoreParams returns the indicator parameters with the scanner's bar minimum
func (c *Config) ScoreParams() score.Params {
	p := c.Indicators
	p.MinBars = c.Scanner.MinBars
	return p
}
