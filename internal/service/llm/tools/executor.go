package tools

import (
	"context"

	"blogsmith/internal/domain/models/llm"
)

// ToolExecutor defines the interface for executing a tool.
// Implementations must be thread-safe and respect context cancellation.
type ToolExecutor interface {
	// Definition returns the schema advertised to the model.
	Definition() llm.ToolDefinition

	// Execute runs the tool with the arguments the model supplied.
	// The result is rendered for the model with ToolResult.Content, so it should
	// be a string, a fmt.Stringer, or JSON-serializable.
	Execute(ctx context.Context, input map[string]interface{}) (interface{}, error)
}
