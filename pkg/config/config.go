package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Host            string        `yaml:"host"`
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORSOrigins     []string      `yaml:"cors_origins"`
		SlowThreshold   time.Duration `yaml:"slow_threshold"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Yahoo struct {
		ChartURL   string        `yaml:"chart_url"`
		SummaryURL string        `yaml:"summary_url"`
		CookieURL  string        `yaml:"cookie_url"`
		CrumbURL   string        `yaml:"crumb_url"`
		UserAgent  string        `yaml:"user_agent"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"yahoo"`
	Cache struct {
		Backend string        `yaml:"backend"` // memory, redis or none
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refill_per_sec"`
	} `yaml:"ratelimit"`
	Dashboard struct {
		DefaultSymbol string `yaml:"default_symbol"`
		DefaultPeriod string `yaml:"default_period"`
		DefaultChart  string `yaml:"default_chart"`
	} `yaml:"dashboard"`
	Charts struct {
		SnapshotEnabled bool          `yaml:"snapshot_enabled"`
		SnapshotTimeout time.Duration `yaml:"snapshot_timeout"`
	} `yaml:"charts"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("STOCKDASH_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("STOCKDASH_PORT: %w", err)
		}
		c.Server.Port = p
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("YAHOO_CHART_URL"); v != "" {
		c.Yahoo.ChartURL = v
	}
	if v := os.Getenv("YAHOO_SUMMARY_URL"); v != "" {
		c.Yahoo.SummaryURL = v
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// Default returns a config populated with the values used when a key is
// absent from the YAML file.
func Default() *Config {
	c := &Config{Environment: "development"}
	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8501
	c.Server.ReadTimeout = 15 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.CORSOrigins = []string{"*"}
	c.Server.SlowThreshold = 3 * time.Second
	c.Log.Level = "info"
	c.Log.Format = "console"
	c.Log.Output = "stdout"
	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	c.Yahoo.ChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	c.Yahoo.SummaryURL = "https://query2.finance.yahoo.com/v10/finance/quoteSummary"
	c.Yahoo.CookieURL = "https://fc.yahoo.com"
	c.Yahoo.CrumbURL = "https://query1.finance.yahoo.com/v1/test/getcrumb"
	c.Yahoo.UserAgent = "Mozilla/5.0"
	c.Yahoo.Timeout = 30 * time.Second
	c.Cache.Backend = "memory"
	c.Cache.TTL = 5 * time.Minute
	c.Cache.Redis.Addr = "localhost:6379"
	c.Cache.Redis.Prefix = "stockdash"
	c.RateLimit.Capacity = 10
	c.RateLimit.RefillPerSec = 2
	c.Dashboard.DefaultSymbol = "AAPL"
	c.Dashboard.DefaultPeriod = "1y"
	c.Dashboard.DefaultChart = "candlestick"
	c.Charts.SnapshotTimeout = 20 * time.Second
	return c
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	switch c.Cache.Backend {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("cache.backend must be 'memory', 'redis' or 'none', got '%s'", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.Redis.Addr == "" {
		return fmt.Errorf("cache.redis.addr is required when cache.backend is 'redis'")
	}
	if c.Yahoo.ChartURL == "" || c.Yahoo.SummaryURL == "" {
		return fmt.Errorf("yahoo.chart_url and yahoo.summary_url are required")
	}
	switch c.Dashboard.DefaultPeriod {
	case "1mo", "3mo", "6mo", "1y", "2y", "5y":
	default:
		return fmt.Errorf("dashboard.default_period must be one of 1mo 3mo 6mo 1y 2y 5y, got '%s'", c.Dashboard.DefaultPeriod)
	}
	if c.Dashboard.DefaultChart != "candlestick" && c.Dashboard.DefaultChart != "line" {
		return fmt.Errorf("dashboard.default_chart must be 'candlestick' or 'line', got '%s'", c.Dashboard.DefaultChart)
	}
	if c.RateLimit.Capacity < 0 || c.RateLimit.RefillPerSec < 0 {
		return fmt.Errorf("ratelimit values must not be negative")
	}
	return nil
}
