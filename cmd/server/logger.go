package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/lumo-api/internal/config"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
)

// setupAppLogger configures the application logger from the server
// settings and logs the non-secret parts of cfg.
func setupAppLogger(cfg *config.Config) (*slog.Logger, error) {
	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	l.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)
	l.Debug("notification delivery configuration",
		"queue_size", cfg.Notifications.QueueSize,
		"worker_count", cfg.Notifications.WorkerCount,
		"max_attempts", cfg.Notifications.MaxAttempts)
	if cfg.Auth.JWTSecret != "" {
		l.Debug("auth configuration", "jwt_secret_present", true)
	}

	return l, nil
}
