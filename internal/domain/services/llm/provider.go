package llm

import (
	"context"

	"blogsmith/internal/domain/models/llm"
)

// Provider defines the interface that all LLM providers must implement.
// Adapters translate the provider-neutral request into their SDK's shape and
// classify failures into a *ProviderError.
type Provider interface {
	// Complete sends the conversation and returns either final text or tool calls.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// CompletionRequest contains the parameters for one model call.
type CompletionRequest struct {
	// Model is the model identifier (e.g., "gemini-2.0-flash")
	Model string

	// System is the system instruction; empty means none
	System string

	// Messages contains the conversation history, oldest first
	Messages []llm.Message

	// Tools the model may call; empty disables tool use
	Tools []llm.ToolDefinition

	// Temperature is optional; nil uses the provider default
	Temperature *float64
}

// CompletionResponse contains the provider's reply.
type CompletionResponse struct {
	// Content is the text of the reply (may be empty when ToolCalls is set)
	Content string

	// ToolCalls requested by the model, in the order given
	ToolCalls []llm.ToolCall

	// Model is the model that was used (may differ from request if aliased)
	Model string

	// StopReason indicates why generation stopped
	StopReason string

	InputTokens  int
	OutputTokens int
}

// HasToolCalls reports whether the model asked for tools to run
func (r *CompletionResponse) HasToolCalls() bool {
	return r != nil && len(r.ToolCalls) > 0
}
