package config

import (
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string            `mapstructure:"version"`
	Environment string            `mapstructure:"environment"`
	Server      ServerConfig      `mapstructure:"server"`
	Weather     WeatherConfig     `mapstructure:"weather"`
	Trends      TrendsConfig      `mapstructure:"trends"`
	Recommend   RecommendConfig   `mapstructure:"recommend"`
	ImageSearch ImageSearchConfig `mapstructure:"image_search"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Telemetry   TelemetryConfig   `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// WeatherConfig describes the current-conditions provider. Units must match
// the relevance filter bands, which is why the aggregator reads it too.
type WeatherConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	Units           string        `mapstructure:"units"`
	DefaultLocation string        `mapstructure:"default_location"`
	Timeout         int           `mapstructure:"timeout"`
	Breaker         BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	Enabled             bool   `mapstructure:"enabled"`
	Interval            int    `mapstructure:"interval"`
	Timeout             int    `mapstructure:"timeout"`
	ConsecutiveFailures uint32 `mapstructure:"consecutive_failures"`
}

type TrendsConfig struct {
	Timeout int                          `mapstructure:"timeout"`
	Order   []string                     `mapstructure:"order"`
	Sources map[string]TrendSourceConfig `mapstructure:"sources"`
}

type TrendSourceConfig struct {
	Type      string            `mapstructure:"type"`
	Enabled   bool              `mapstructure:"enabled"`
	BaseURL   string            `mapstructure:"base_url"`
	Host      string            `mapstructure:"host"`
	APIKey    string            `mapstructure:"api_key"`
	Limit     int               `mapstructure:"limit"`
	Params    map[string]string `mapstructure:"params"`
	RateLimit RateLimitConfig   `mapstructure:"rate_limit"`
}

// RateLimitConfig caps outbound calls per source. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// RecommendConfig drives the outfit suggestions produced by a text
// generation model from the current weather and trends.
type RecommendConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	BaseURL   string `mapstructure:"base_url"`
	APIKey    string `mapstructure:"api_key"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	MaxTrends int    `mapstructure:"max_trends"`
	Timeout   int    `mapstructure:"timeout"`
}

// ImageSearchConfig points at a Google Programmable Search engine.
type ImageSearchConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	EngineID string `mapstructure:"engine_id"`
	Limit    int    `mapstructure:"limit"`
	Timeout  int    `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Endpoint    string `mapstructure:"endpoint"`
	ServiceName string `mapstructure:"service_name"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         5000,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		Weather: WeatherConfig{
			BaseURL:         "https://api.openweathermap.org/data/2.5",
			APIKey:          "",
			Units:           "imperial",
			DefaultLocation: "94103",
			Timeout:         5,
			Breaker: BreakerConfig{
				Enabled:             false,
				Interval:            30,
				Timeout:             15,
				ConsecutiveFailures: 5,
			},
		},
		Trends: TrendsConfig{
			Timeout: 5,
			Order:   []string{"pinterest", "tiktok"},
			Sources: map[string]TrendSourceConfig{
				"pinterest": {
					Type:    "pinterest",
					Enabled: true,
					BaseURL: "https://pinterest-api3.p.rapidapi.com",
					Host:    "pinterest-api3.p.rapidapi.com",
					Limit:   10,
					Params: map[string]string{
						"query": "fashion trends",
					},
				},
				"tiktok": {
					Type:    "tiktok",
					Enabled: true,
					BaseURL: "https://tiktok-trending-data.p.rapidapi.com",
					Host:    "tiktok-trending-data.p.rapidapi.com",
					Limit:   10,
					Params: map[string]string{
						"region": "US",
					},
				},
			},
		},
		Recommend: RecommendConfig{
			Enabled:   false,
			BaseURL:   "https://api.anthropic.com",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 1024,
			MaxTrends: 5,
			Timeout:   30,
		},
		ImageSearch: ImageSearchConfig{
			Enabled: false,
			BaseURL: "https://customsearch.googleapis.com",
			Limit:   10,
			Timeout: 5,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Endpoint:    "tempo:4317",
			ServiceName: "outfit-trends",
		},
	}
}
