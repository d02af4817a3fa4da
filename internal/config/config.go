package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Redis     RedisConfig     `yaml:"redis" mapstructure:"redis"`
	Sheets    SheetsConfig    `yaml:"sheets" mapstructure:"sheets"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Analytics AnalyticsConfig `yaml:"analytics" mapstructure:"analytics"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the sheet registry backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // file, redis, sqlite, postgres
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns    int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// RedisConfig configures the Redis registry backend.
type RedisConfig struct {
	URL string `yaml:"url" mapstructure:"url"`
	Key string `yaml:"key" mapstructure:"key"`
}

// SheetsConfig holds Google Sheets credentials and fetch tuning.
type SheetsConfig struct {
	ClientEmail string  `yaml:"client_email" mapstructure:"client_email"`
	PrivateKey  string  `yaml:"private_key" mapstructure:"private_key"`
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	TokenURL    string  `yaml:"token_url" mapstructure:"token_url"`
	BatchSize   int     `yaml:"batch_size" mapstructure:"batch_size"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
	RateBurst   int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// HasServiceAccount reports whether service-account credentials are set.
func (s SheetsConfig) HasServiceAccount() bool {
	return s.ClientEmail != "" && s.PrivateKey != ""
}

// CacheConfig configures the in-process snapshot cache. TTLMinutes 0
// disables it.
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes" mapstructure:"ttl_minutes"`
}

// TTL returns the cache lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// AnalyticsConfig tunes time-window metrics.
type AnalyticsConfig struct {
	StaleWindowDays int `yaml:"stale_window_days" mapstructure:"stale_window_days"`
}

// StaleWindow returns the stale-client window.
func (a AnalyticsConfig) StaleWindow() time.Duration {
	return time.Duration(a.StaleWindowDays) * 24 * time.Hour
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
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
	v.SetEnvPrefix("LEADTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.path", "sheets-config.json")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.max_conns", 4)
	v.SetDefault("store.min_conns", 0)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.key", "sheets-config")
	v.SetDefault("sheets.client_email", "")
	v.SetDefault("sheets.private_key", "")
	v.SetDefault("sheets.api_key", "")
	v.SetDefault("sheets.base_url", "https://sheets.googleapis.com/v4")
	v.SetDefault("sheets.token_url", "https://oauth2.googleapis.com/token")
	v.SetDefault("sheets.batch_size", 10)
	v.SetDefault("sheets.rate_limit", 1.0)
	v.SetDefault("sheets.rate_burst", 10)
	v.SetDefault("cache.ttl_minutes", 30)
	v.SetDefault("analytics.stale_window_days", 4)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
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

	return &cfg, nil
}

// Validate checks that the settings a command needs are present. Modes:
// "serve" and "sheets" talk to Google and the registry; "local" reads
// files only.
func (c *Config) Validate(mode string) error {
	var missing []string

	switch mode {
	case "serve":
		missing = append(missing, c.validateSheets()...)
		missing = append(missing, c.validateStore()...)
		if c.Server.Port <= 0 {
			missing = append(missing, "server.port must be > 0")
		}
	case "sheets":
		missing = append(missing, c.validateSheets()...)
		missing = append(missing, c.validateStore()...)
	case "local":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Cache.TTLMinutes < 0 {
		missing = append(missing, "cache.ttl_minutes must be >= 0")
	}
	if c.Sheets.BatchSize <= 0 {
		missing = append(missing, "sheets.batch_size must be > 0")
	}
	if c.Analytics.StaleWindowDays <= 0 {
		missing = append(missing, "analytics.stale_window_days must be > 0")
	}

	if len(missing) > 0 {
		return eris.New(fmt.Sprintf("config: %s", strings.Join(missing, "; ")))
	}
	return nil
}

func (c *Config) validateSheets() []string {
	if c.Sheets.HasServiceAccount() || c.Sheets.APIKey != "" {
		return nil
	}
	return []string{"sheets.client_email and sheets.private_key (or sheets.api_key) are required"}
}

func (c *Config) validateStore() []string {
	switch c.Store.Driver {
	case "file", "sqlite":
		if c.Store.Path == "" {
			return []string{"store.path is required"}
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			return []string{"store.database_url is required"}
		}
	case "redis":
		if c.Redis.URL == "" {
			return []string{"redis.url is required"}
		}
	default:
		return []string{fmt.Sprintf("store.driver %q is not supported", c.Store.Driver)}
	}
	return nil
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
