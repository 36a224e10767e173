package llm

import (
	"context"

	"blogsmith/internal/domain/models/llm"
)

// Agent is a reasoning strategy that turns a topic into a raw draft.
//
// A run may call tools any number of times in any order. The outcome carries
// the last image URL produced during the run. Implementations must not share
// per-run state between concurrent calls.
type Agent interface {
	Run(ctx context.Context, topic string) (*llm.AgentRunOutcome, error)
}

// Generator produces a finished blog from a request. It never returns an
// empty BlogContent and absorbs every collaborator failure.
type Generator interface {
	Generate(ctx context.Context, req *llm.GenerationRequest) *llm.GenerationResult
}
