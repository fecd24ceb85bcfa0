package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName            string        `mapstructure:"app_name"`
	LogLevel           string        `mapstructure:"log_level"`
	HubName            string        `mapstructure:"hub_name"`
	SASToken           string        `mapstructure:"sas_token"`
	BaseURL            string        `mapstructure:"base_url"`
	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`
	MetricsEnabled     bool          `mapstructure:"metrics_enabled"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	SnapshotTTLSeconds     int64         `mapstructure:"snapshot_ttl_seconds"`
	SnapshotCleanupSeconds int64         `mapstructure:"snapshot_cleanup_interval_seconds"`
	SnapshotTTL            time.Duration `mapstructure:"-"`
	SnapshotCleanup        time.Duration `mapstructure:"-"`
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.SASToken != "" {
		c.SASToken = "[redacted]"
	}
	return c
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	return load("configs/.env", true)
}

// LoadLocal is Load without the hub credential checks, for commands that
// only read local snapshots.
func LoadLocal() (*Config, error) {
	return load("configs/.env", false)
}

func load(envFile string, requireHub bool) (*Config, error) {
	_ = godotenv.Load(envFile)

	v := viper.New()

	v.SetDefault("app_name", "hubctl")
	v.SetDefault("log_level", "info")
	v.SetDefault("hub_name", "")
	v.SetDefault("sas_token", "")
	v.SetDefault("base_url", "")
	v.SetDefault("http_timeout_seconds", 30)
	v.SetDefault("metrics_enabled", false)
	v.SetDefault("storage_type", "none")
	v.SetDefault("bbolt_path", "./data/twins.db")
	v.SetDefault("snapshot_ttl_seconds", int64((7*24*time.Hour)/time.Second))
	v.SetDefault("snapshot_cleanup_interval_seconds", int64((6*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.HubName = strings.TrimSpace(cfg.HubName)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if requireHub {
		if cfg.HubName == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("hub_name is required (or base_url for a non-default endpoint)")
		}
		if strings.TrimSpace(cfg.SASToken) == "" {
			return nil, fmt.Errorf("sas_token is required")
		}
	}

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	if cfg.SnapshotTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid snapshot_ttl_seconds (must be positive seconds)")
	}
	if cfg.SnapshotCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid snapshot_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.SnapshotTTL = time.Duration(cfg.SnapshotTTLSeconds) * time.Second
	cfg.SnapshotCleanup = time.Duration(cfg.SnapshotCleanupSeconds) * time.Second

	return &cfg, nil
}
