package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. LUMO_DATABASE_URL or LUMO_AUTH_JWT_SECRET.
const EnvPrefix = "LUMO"

// defaults holds the values used when neither the config file nor the
// environment provides a setting.
var defaults = map[string]any{
	"server.port":                         8080,
	"server.log_level":                    "info",
	"server.read_timeout_seconds":         15,
	"server.write_timeout_seconds":        15,
	"database.max_open_conns":             10,
	"database.max_idle_conns":             5,
	"database.conn_max_lifetime_minutes":  5,
	"auth.bcrypt_cost":                    10,
	"auth.token_lifetime_minutes":         43200, // 30 days
	"auth.refresh_token_lifetime_minutes": 86400,
	"notifications.queue_size":            256,
	"notifications.worker_count":          2,
	"notifications.max_attempts":          3,
	"notifications.retry_delay_ms":        500,
	"rate_limit.requests_per_second":      0.0,
	"rate_limit.burst":                    0,
}

// keys without a default that must still be visible to Unmarshal when they
// only come from the environment.
var requiredKeys = []string{
	"database.url",
	"auth.jwt_secret",
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range requiredKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
