package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// Config holds the main configuration for the client.
type Config struct {
	Backend Backend        `mapstructure:"backend"`
	Sync    Sync           `mapstructure:"sync"`
	Server  Server         `mapstructure:"server"`
	Retry   retry.Strategy `mapstructure:"retry"`

	LogLevel string `mapstructure:"log_level"` // zerolog level name: debug, info, warn, error
}

// Backend holds the delayed-notifier backend connection parameters.
type Backend struct {
	BaseURL string        `mapstructure:"base_url"` // e.g. http://localhost:8080
	Timeout time.Duration `mapstructure:"timeout"`  // per-request timeout
}

// Sync holds the lifecycle synchronizer configuration.
type Sync struct {
	Interval time.Duration `mapstructure:"interval"` // polling period
}

// Server holds the local API configuration.
type Server struct {
	HTTPPort string `mapstructure:"http_port"` // address to listen on, e.g. :8081
}

// setDefaults registers the values used when neither file nor env set a key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://localhost:8080")
	v.SetDefault("backend.timeout", 5*time.Second)
	v.SetDefault("sync.interval", 10*time.Second)
	v.SetDefault("server.http_port", ":8081")
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.delay", 200*time.Millisecond)
	v.SetDefault("retry.backoff", 2)
	v.SetDefault("log_level", "info")
}

// bindEnv binds environment variables to config keys.
func bindEnv(v *viper.Viper) error {
	bindings := map[string]string{
		"backend.base_url": "NOTIFIER_BASE_URL",
		"backend.timeout":  "NOTIFIER_TIMEOUT",
		"sync.interval":    "NOTIFIER_SYNC_INTERVAL",
		"server.http_port": "NOTIFIER_HTTP_PORT",
		"log_level":        "NOTIFIER_LOG_LEVEL",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return err
		}
	}

	return nil
}

// Load reads configuration from ./config/config.yaml (if present) and the
// environment. A missing config file is not an error.
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}

		zlog.Logger.Warn().Msg("config file not found, using defaults and environment")
	}

	if err := bindEnv(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Must loads the configuration with the global viper instance.
//
// It panics if configuration cannot be read or unmarshalled.
func Must() *Config {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to load config")
	}

	return cfg
}
