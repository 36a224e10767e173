package handler

import (
	"log/slog"
	"net/http"

	"blogsmith/internal/domain/services"
	"blogsmith/internal/httputil"
)

// ChatHandler handles chat HTTP requests.
// Handlers only talk to services, never repositories.
type ChatHandler struct {
	service services.BlogService
	logger  *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service services.BlogService, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

// ListChats retrieves a user's chats
// GET /api/chats?user_id=:id
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.service.ListChats(r.Context(), httputil.QueryParam(r, "user_id", ""))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, chats)
}

// ListMessages retrieves a chat's messages in order
// GET /api/chats/{id}/messages
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	messages, err := h.service.ListMessages(r.Context(), chatID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, messages)
}

// DeleteChat deletes a chat along with its messages and blogs
// DELETE /api/chats/{id}
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	chatID, ok := PathParam(w, r, "id", "Chat ID")
	if !ok {
		return
	}

	if err := h.service.DeleteChat(r.Context(), chatID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.SuccessResponse{
		Success: true,
		Message: "Chat deleted successfully",
	})
}
