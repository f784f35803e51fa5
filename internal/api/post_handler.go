package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lumo-api/internal/api/shared"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/service"
)

// PostHandler handles post creation, the feed, likes and comments.
type PostHandler struct {
	postService       service.PostService
	engagementService service.EngagementService
	logger            *slog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(
	postService service.PostService,
	engagementService service.EngagementService,
	logger *slog.Logger,
) *PostHandler {
	if postService == nil || engagementService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("services cannot be nil for PostHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostHandler{
		postService:       postService,
		engagementService: engagementService,
		logger:            logger.With(slog.String("component", "post_handler")),
	}
}

// CreatePost handles POST /api/posts.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req CreatePostRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	post, err := h.postService.CreatePost(r.Context(), userID, req.ImageURL, req.Caption)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create post")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, post)
}

// Feed handles GET /api/posts/feed?limit=&offset=.
func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	limit, err := getQueryInt(r, "limit", service.DefaultFeedLimit)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	offset, err := getQueryInt(r, "offset", 0)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	feed, err := h.postService.Feed(r.Context(), limit, offset)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load feed")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, feed)
}

// LikePost handles POST /api/post/{postId}/like and returns the updated post.
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, postID, ok := handleUserIDAndPathUUID(w, r, "postId", log)
	if !ok {
		return
	}

	post, err := h.engagementService.LikePost(r.Context(), postID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to like post")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, post)
}

// UnlikePost handles DELETE /api/post/{postId}/like and returns the
// updated post.
func (h *PostHandler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, postID, ok := handleUserIDAndPathUUID(w, r, "postId", log)
	if !ok {
		return
	}

	post, err := h.engagementService.UnlikePost(r.Context(), postID, userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to unlike post")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, post)
}

// AddComment handles POST /api/post/{postId}/comments.
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, postID, ok := handleUserIDAndPathUUID(w, r, "postId", log)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	comment, err := h.engagementService.AddComment(r.Context(), postID, userID, req.Content)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to add comment")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, comment)
}
