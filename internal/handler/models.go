package handler

import (
	"log/slog"
	"net/http"

	"blogsmith/internal/capabilities"
	"blogsmith/internal/config"
	"blogsmith/internal/httputil"
)

// ModelsHandler serves the model catalog
type ModelsHandler struct {
	config   *config.Config
	logger   *slog.Logger
	registry *capabilities.Registry
}

// NewModelsHandler creates a new models handler
func NewModelsHandler(cfg *config.Config, logger *slog.Logger, registry *capabilities.Registry) *ModelsHandler {
	return &ModelsHandler{
		config:   cfg,
		logger:   logger,
		registry: registry,
	}
}

// ModelsResponse lists catalogued models and which one generation uses
type ModelsResponse struct {
	Provider     string          `json:"provider"`
	DefaultModel string          `json:"default_model"`
	Models       []ModelResponse `json:"models"`
}

// ModelResponse represents a model for the API response
type ModelResponse struct {
	ID            string `json:"id"`
	DisplayName   string `json:"display_name"`
	Description   string `json:"description,omitempty"`
	ContextWindow int    `json:"context_window"`
	ToolCalls     string `json:"tool_calls"` // excellent, good, basic
	SupportsTools bool   `json:"supports_tools"`
	Thinking      bool   `json:"thinking"`
	ImageInput    bool   `json:"image_input"`
}

// ListModels returns the catalog in file order
// GET /api/models
func (h *ModelsHandler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.registry.ListModels(capabilities.DefaultCatalog)
	if err != nil {
		h.logger.Error("failed to list models", "error", err)
		httputil.RespondError(w, http.StatusInternalServerError, "failed to list models")
		return
	}

	resp := ModelsResponse{
		Provider:     h.config.LLMProvider,
		DefaultModel: h.config.DefaultModel,
		Models:       make([]ModelResponse, 0, len(models)),
	}
	for _, m := range models {
		resp.Models = append(resp.Models, ModelResponse{
			ID:            m.ID,
			DisplayName:   m.DisplayName,
			Description:   m.Description,
			ContextWindow: m.ContextWindow,
			ToolCalls:     string(m.ToolCallQuality),
			SupportsTools: m.SupportsTools,
			Thinking:      m.SupportsThinking,
			ImageInput:    m.SupportsVision,
		})
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}
