package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server        ServerConfig        `mapstructure:"server" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Auth          AuthConfig          `mapstructure:"auth" validate:"required"`
	Notifications NotificationsConfig `mapstructure:"notifications" validate:"required"`
	RateLimit     RateLimitConfig     `mapstructure:"rate_limit"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel            string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings,
// including the connection pool limits applied to the shared *sql.DB.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" validate:"gte=0,ltefield=MaxOpenConns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"gtfield=TokenLifetimeMinutes"`
}

// NotificationsConfig controls the background queue that retries failed
// notification writes.
type NotificationsConfig struct {
	QueueSize    int `mapstructure:"queue_size" validate:"gt=0"`
	WorkerCount  int `mapstructure:"worker_count" validate:"gt=0"`
	MaxAttempts  int `mapstructure:"max_attempts" validate:"gt=0"`
	RetryDelayMS int `mapstructure:"retry_delay_ms" validate:"gte=0"`
}

// RateLimitConfig configures the per-caller request limiter.
// A zero RequestsPerSecond disables limiting.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gte=0"`
	Burst             int     `mapstructure:"burst" validate:"gte=0"`
}
