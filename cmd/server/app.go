package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/lumo-api/internal/config"
	"github.com/phrazzld/lumo-api/internal/platform/metrics"
	"github.com/phrazzld/lumo-api/internal/platform/postgres"
	"github.com/phrazzld/lumo-api/internal/service"
	"github.com/phrazzld/lumo-api/internal/service/auth"
	"github.com/phrazzld/lumo-api/internal/store"
	"github.com/phrazzld/lumo-api/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config  *config.Config
	logger  *slog.Logger
	db      *sql.DB
	metrics *metrics.Metrics

	// Stores
	userStore         store.UserStore
	postStore         store.PostStore
	commentStore      store.CommentStore
	notificationStore store.NotificationStore
	transactor        store.Transactor

	// Auth
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier

	// Services
	friendService       service.FriendService
	engagementService   service.EngagementService
	notificationService service.NotificationService
	profileService      service.ProfileService
	postService         service.PostService

	// Notification retry queue
	taskQueue  *task.TaskQueue
	workerPool *task.WorkerPool
}

// newApplication creates the Postgres-backed stores on db and wires every
// service on top of them.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BCryptCost, logger)
	app.postStore = postgres.NewPostgresPostStore(db, logger)
	app.commentStore = postgres.NewPostgresCommentStore(db, logger)
	app.notificationStore = postgres.NewPostgresNotificationStore(db, logger)
	app.transactor = store.NewSQLTransactor(db)

	if err := app.wireServices(); err != nil {
		return nil, err
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// wireServices builds metrics, auth, the notification retry queue and the
// domain services from the stores already set on app.
func (app *application) wireServices() error {
	cfg := app.config
	logger := app.logger

	if app.metrics == nil {
		app.metrics = metrics.New()
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	app.passwordVerifier = auth.NewBcryptVerifier()
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.taskQueue = task.NewTaskQueue(cfg.Notifications.QueueSize, logger)

	app.notificationService, err = service.NewNotificationService(
		app.userStore,
		app.postStore,
		app.notificationStore,
		app.taskQueue,
		app.metrics,
		service.DeliveryConfig{
			MaxAttempts: cfg.Notifications.MaxAttempts,
			RetryDelay:  time.Duration(cfg.Notifications.RetryDelayMS) * time.Millisecond,
		},
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification service: %w", err)
	}

	app.workerPool = task.NewWorkerPool(app.taskQueue, task.WorkerPoolConfig{
		WorkerCount: cfg.Notifications.WorkerCount,
	}, logger)
	app.workerPool.SetErrorHandler(app.notificationService.HandleDeliveryFailure)

	app.friendService, err = service.NewFriendService(app.userStore, app.transactor, app.notificationService, logger)
	if err != nil {
		return fmt.Errorf("failed to create friend service: %w", err)
	}

	app.engagementService, err = service.NewEngagementService(
		app.postStore,
		app.commentStore,
		app.notificationService,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create engagement service: %w", err)
	}

	app.profileService, err = service.NewProfileService(app.userStore, app.postStore, logger)
	if err != nil {
		return fmt.Errorf("failed to create profile service: %w", err)
	}

	app.postService, err = service.NewPostService(app.userStore, app.postStore, app.commentStore, logger)
	if err != nil {
		return fmt.Errorf("failed to create post service: %w", err)
	}

	return nil
}

// Run starts the notification workers and serves HTTP until ctx is done.
func (app *application) Run(ctx context.Context) error {
	app.workerPool.Start()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup stops background delivery and releases the database pool. Queued
// retries that have not started are abandoned.
func (app *application) cleanup() {
	if app.workerPool != nil {
		app.workerPool.Stop()
	}
	if app.taskQueue != nil {
		app.taskQueue.Close()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
