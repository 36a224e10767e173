package handler

import (
	"log/slog"
	"net/http"

	"blogsmith/internal/domain/services"
	"blogsmith/internal/httputil"
)

// BlogHandler handles blog generation and blog listing
type BlogHandler struct {
	service services.BlogService
	logger  *slog.Logger
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(service services.BlogService, logger *slog.Logger) *BlogHandler {
	return &BlogHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateBlog researches, writes and stores a blog for a topic.
// Generation failures still produce a 200 with a placeholder body; only
// validation and persistence errors surface as problems.
// POST /api/generate-blog
func (h *BlogHandler) GenerateBlog(w http.ResponseWriter, r *http.Request) {
	var req services.GenerateBlogRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.service.GenerateBlog(r.Context(), &req)
	if err != nil {
		h.logger.Error("blog generation failed", "topic", req.Topic, "error", err)
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// ListBlogs lists a user's blogs, newest first
// GET /api/blogs?user_id=:id
func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.ListBlogs(r.Context(), httputil.QueryParam(r, "user_id", ""))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, blogs)
}

// GetBlogHTML renders a stored blog as sanitized HTML
// GET /api/blogs/{id}/html
func (h *BlogHandler) GetBlogHTML(w http.ResponseWriter, r *http.Request) {
	blogID, ok := PathParam(w, r, "id", "Blog ID")
	if !ok {
		return
	}

	html, err := h.service.RenderBlogHTML(r.Context(), blogID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondHTML(w, http.StatusOK, html)
}
