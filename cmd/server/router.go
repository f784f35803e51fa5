package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lumo-api/internal/api"
	apiMiddleware "github.com/phrazzld/lumo-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(apiMiddleware.Metrics(app.metrics))
	r.Use(middleware.Recoverer)

	authHandler := api.NewAuthHandler(app.userStore, app.jwtService, app.passwordVerifier, app.logger)
	friendHandler := api.NewFriendHandler(app.friendService, app.logger)
	postHandler := api.NewPostHandler(app.postService, app.engagementService, app.logger)
	notificationHandler := api.NewNotificationHandler(app.notificationService, app.logger)
	profileHandler := api.NewProfileHandler(app.profileService, app.logger)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	limiter := apiMiddleware.NewRateLimiter(app.config.RateLimit, app.logger)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Group(func(r chi.Router) {
			r.Use(limiter.Limit)
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
			r.Post("/auth/refresh", authHandler.RefreshToken)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(limiter.Limit)

			r.Post("/friend/{friendId}", friendHandler.AddFriend)
			r.Delete("/friend/{friendId}", friendHandler.RemoveFriend)

			r.Post("/posts", postHandler.CreatePost)
			r.Get("/posts/feed", postHandler.Feed)
			r.Post("/post/{postId}/like", postHandler.LikePost)
			r.Delete("/post/{postId}/like", postHandler.UnlikePost)
			r.Post("/post/{postId}/comments", postHandler.AddComment)

			r.Get("/notifications", notificationHandler.ListNotifications)

			r.Get("/profile/{id}", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpdateProfile)
			r.Get("/users", profileHandler.ListUsers)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", app.metrics.Handler())

	return r
}
