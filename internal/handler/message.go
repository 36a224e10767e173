package handler

import (
	"log/slog"
	"net/http"

	"blogsmith/internal/domain/services"
	"blogsmith/internal/httputil"
)

// MessageHandler handles message edits and deletes
type MessageHandler struct {
	service services.BlogService
	logger  *slog.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(service services.BlogService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		logger:  logger,
	}
}

// DeleteMessage deletes a single message
// DELETE /api/messages/{id}
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID, ok := PathParam(w, r, "id", "Message ID")
	if !ok {
		return
	}

	if err := h.service.DeleteMessage(r.Context(), messageID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.SuccessResponse{Success: true})
}

// EditMessage replaces a message's content.
// The content comes from the JSON body, or from the query string for older clients.
// PATCH /api/messages/{id}
func (h *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	messageID, ok := PathParam(w, r, "id", "Message ID")
	if !ok {
		return
	}

	var req services.EditMessageRequest
	if httputil.HasBody(r) {
		if err := httputil.ParseJSON(w, r, &req); err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Content == "" {
		req.Content = r.URL.Query().Get("content")
	}

	if _, err := h.service.EditMessage(r.Context(), messageID, &req); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, httputil.SuccessResponse{Success: true})
}
