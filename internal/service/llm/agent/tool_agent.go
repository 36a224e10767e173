package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"blogsmith/internal/config"
	"blogsmith/internal/domain/models/llm"
	domainllm "blogsmith/internal/domain/services/llm"
	"blogsmith/internal/service/llm/tools"
)

// ToolAgent drives a tool-calling conversation with an LLM provider.
//
// Each round sends the conversation plus tool declarations. Tool calls are
// executed through the registry and their results appended. After maxRounds
// tool rounds one final call is made without tools, forcing a text answer.
type ToolAgent struct {
	provider  domainllm.Provider
	tools     *tools.ToolRegistry
	model     string
	maxRounds int
	now       func() time.Time
	logger    *slog.Logger
}

// NewToolAgent creates an agent using model on provider with the tools in registry.
func NewToolAgent(provider domainllm.Provider, registry *tools.ToolRegistry, model string, logger *slog.Logger) *ToolAgent {
	return &ToolAgent{
		provider:  provider,
		tools:     registry,
		model:     model,
		maxRounds: config.MaxToolRounds,
		now:       time.Now,
		logger:    logger,
	}
}

// Run implements domainllm.Agent.
func (a *ToolAgent) Run(ctx context.Context, topic string) (*llm.AgentRunOutcome, error) {
	state := &runState{}
	system := SystemInstruction(a.now())
	defs := a.tools.Definitions()
	messages := []llm.Message{{Role: llm.RoleUser, Content: topic}}

	for round := 0; ; round++ {
		req := &domainllm.CompletionRequest{
			Model:    a.model,
			System:   system,
			Messages: messages,
		}
		if round < a.maxRounds {
			req.Tools = defs
		}

		resp, err := a.provider.Complete(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("agent round %d: %w", round+1, err)
		}

		if !resp.HasToolCalls() || round >= a.maxRounds {
			a.logger.Debug("agent run finished",
				"rounds", round+1,
				"tool_calls", len(state.invocations),
				"has_image", state.image != "",
			)
			return state.outcome(resp.Content), nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		calls := tools.FromModelCalls(resp.ToolCalls)
		state.track(calls, a.now())
		for _, inv := range state.invocations[len(state.invocations)-len(calls):] {
			a.logger.Debug("tool invoked", "tool", inv.Tool, "argument", inv.Argument, "round", round+1)
		}

		results := a.tools.ExecuteParallel(ctx, calls)
		state.observe(results)

		for _, result := range results {
			if result.IsError {
				a.logger.Warn("tool execution failed", "tool", result.Name, "error", result.Error)
			}
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    result.Content(),
				ToolCallID: result.ID,
				ToolName:   result.Name,
			})
		}
	}
}
