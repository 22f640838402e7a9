// Package config loads server configuration from a YAML file and
// MINEGLASS_* environment variables, env taking precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	SeedPath   string `mapstructure:"seed_path"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"` // text or json

	DB      DBConfig      `mapstructure:"db"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Storage StorageConfig `mapstructure:"storage"`
	Audit   AuditConfig   `mapstructure:"audit"`
}

// DBConfig selects the database backend. sqlite is the single-node
// default; postgres serves shared deployments.
type DBConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	DSN    string `mapstructure:"dsn"`
}

// AuthConfig configures session token minting.
type AuthConfig struct {
	TokenSecret string        `mapstructure:"token_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
}

// AuditConfig controls audit log retention. RetentionDays <= 0 keeps
// events forever.
type AuditConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
}

// StorageConfig configures the optional S3-compatible image store. An
// empty bucket disables image uploads.
type StorageConfig struct {
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

// Load reads configuration. path may be empty; defaults and environment
// variables then fully determine the config.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MINEGLASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("seed_path", "config/seed-catalog.yaml")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "mineglass.db")
	v.SetDefault("auth.token_secret", "")
	v.SetDefault("auth.token_ttl", 24*time.Hour)
	v.SetDefault("audit.retention_days", 90)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown db driver %q (expected sqlite or postgres)", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return errors.New("db dsn required")
	}
	if c.Auth.TokenSecret == "" {
		return errors.New("auth token secret required (set MINEGLASS_AUTH_TOKEN_SECRET)")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (expected text or json)", c.LogFormat)
	}
	return nil
}
