package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type APIConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
	Retries   int    `mapstructure:"retries"`
}

// Timeout returns the request timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutMs) * time.Millisecond
}

type AuthConfig struct {
	// PermissiveFallback grants checks for authenticated principals without a
	// permission model. On by default to match backend deployments that still
	// serve users without roles.
	PermissiveFallback bool `mapstructure:"permissive_fallback"`
}

type CredentialsConfig struct {
	// Dir holds the persisted token and user cache.
	Dir string `mapstructure:"dir"`
}

type Config struct {
	API         APIConfig         `mapstructure:"api"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
}

func Load() (*Config, error) {
	viper.SetConfigName("console")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".sense-console"))
	}

	viper.SetDefault("api.base_url", "http://localhost:8080")
	viper.SetDefault("api.timeout_ms", 10000)
	viper.SetDefault("api.retries", 2)
	viper.SetDefault("auth.permissive_fallback", true)
	if home, err := os.UserHomeDir(); err == nil {
		viper.SetDefault("credentials.dir", filepath.Join(home, ".sense-console"))
	} else {
		viper.SetDefault("credentials.dir", ".sense-console")
	}

	viper.SetEnvPrefix("SENSE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// The console runs fine on defaults; only a malformed file is fatal.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
