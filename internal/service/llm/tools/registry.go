package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"blogsmith/internal/domain/models/llm"
)

// ToolCall represents a single tool invocation request.
type ToolCall struct {
	ID    string                 `json:"id"`    // tool call id from the model
	Name  string                 `json:"name"`  // tool name
	Input map[string]interface{} `json:"input"` // tool parameters
}

// FromModelCalls converts the provider-neutral tool calls into registry calls
func FromModelCalls(calls []llm.ToolCall) []ToolCall {
	out := make([]ToolCall, len(calls))
	for i, c := range calls {
		out[i] = ToolCall{ID: c.ID, Name: c.Name, Input: c.Arguments}
	}
	return out
}

// ToolResult represents the result of a tool execution.
type ToolResult struct {
	ID      string      `json:"id"`       // matches ToolCall.ID
	Name    string      `json:"name"`     // matches ToolCall.Name
	Result  interface{} `json:"result"`   // execution result (nil if error)
	Error   error       `json:"error"`    // execution error (nil if success)
	IsError bool        `json:"is_error"` // whether execution failed
}

// Content renders the result as the text sent back to the model.
func (r ToolResult) Content() string {
	if r.IsError {
		return fmt.Sprintf("Error: %v", r.Error)
	}

	switch v := r.Result.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}

// ToolRegistry manages tool executors and handles tool execution.
// It is safe for concurrent use.
type ToolRegistry struct {
	mu        sync.RWMutex
	executors map[string]ToolExecutor
	order     []string
}

// NewToolRegistry creates a new tool registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		executors: make(map[string]ToolExecutor),
	}
}

// Register adds a tool executor to the registry under its definition's name.
// If a tool with the same name already exists, it will be replaced.
func (r *ToolRegistry) Register(executor ToolExecutor) {
	name := executor.Definition().Name()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.executors[name]; !exists {
		r.order = append(r.order, name)
	}
	r.executors[name] = executor
}

// Get retrieves a tool executor by name.
// Returns nil if the tool is not registered.
func (r *ToolRegistry) Get(name string) ToolExecutor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.executors[name]
}

// Names returns registered tool names in registration order.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Definitions returns the schemas of all registered tools in registration order.
func (r *ToolRegistry) Definitions() []llm.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.executors[name].Definition())
	}
	return defs
}

// Execute runs a single tool and returns the result.
// Unknown tools and execution failures are reported in the result, not returned.
func (r *ToolRegistry) Execute(ctx context.Context, call ToolCall) ToolResult {
	executor := r.Get(call.Name)
	if executor == nil {
		return ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Error:   fmt.Errorf("tool not found: %s", call.Name),
			IsError: true,
		}
	}

	result, err := executor.Execute(ctx, call.Input)
	if err != nil {
		return ToolResult{
			ID:      call.ID,
			Name:    call.Name,
			Error:   err,
			IsError: true,
		}
	}

	return ToolResult{
		ID:     call.ID,
		Name:   call.Name,
		Result: result,
	}
}

// ExecuteParallel runs multiple tools concurrently and returns results in call order.
// Calls that have not started when ctx is cancelled report ctx.Err().
func (r *ToolRegistry) ExecuteParallel(ctx context.Context, calls []ToolCall) []ToolResult {
	if len(calls) == 0 {
		return []ToolResult{}
	}

	results := make([]ToolResult, len(calls))
	var wg sync.WaitGroup

	for i, call := range calls {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[i] = ToolResult{
					ID:      call.ID,
					Name:    call.Name,
					Error:   ctx.Err(),
					IsError: true,
				}
				return
			default:
			}

			results[i] = r.Execute(ctx, call)
		}()
	}

	wg.Wait()
	return results
}
