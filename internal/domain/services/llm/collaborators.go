package llm

import (
	"context"

	"blogsmith/internal/domain/models/llm"
)

// Researcher runs the multi-variant web search for a topic.
// Failures are absorbed; callers only ever see fewer results.
type Researcher interface {
	MultiSearch(ctx context.Context, topic string) []llm.SearchResult
}

// ImageGenerator produces an image and returns its public path, or "" on failure.
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) string
}
