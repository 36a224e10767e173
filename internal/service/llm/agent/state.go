package agent

import (
	"encoding/json"
	"time"

	"blogsmith/internal/domain/models/llm"
	"blogsmith/internal/service/llm/tools"
)

// runState is owned by exactly one Run call and holds the "current image" slot.
type runState struct {
	image       string
	invocations []llm.ToolInvocation
}

// track records the calls about to be executed, in call order.
func (s *runState) track(calls []tools.ToolCall, at time.Time) {
	for _, call := range calls {
		s.invocations = append(s.invocations, llm.ToolInvocation{
			Tool:     call.Name,
			Argument: argumentOf(call),
			At:       at,
		})
	}
}

// observe updates the image slot from results in call order. The last
// image_tool result of the run wins, so a failed generation clears the slot.
func (s *runState) observe(results []tools.ToolResult) {
	for _, r := range results {
		if img, ok := r.Result.(tools.ImageResult); ok {
			s.image = img.Path
		}
	}
}

func (s *runState) outcome(text string) *llm.AgentRunOutcome {
	return &llm.AgentRunOutcome{
		RawText:     text,
		ImageURL:    s.image,
		Invocations: s.invocations,
	}
}

// argumentOf picks the human-readable argument of a call for the audit trail
func argumentOf(call tools.ToolCall) string {
	for _, key := range []string{"query", "topic", "prompt", "description"} {
		if v, ok := call.Input[key].(string); ok {
			return v
		}
	}
	if len(call.Input) == 0 {
		return ""
	}
	data, _ := json.Marshal(call.Input)
	return string(data)
}
