package search

import (
	"context"

	"blogsmith/internal/domain/models/llm"
)

// Provider is a single web search backend (DuckDuckGo, Tavily, ...).
type Provider interface {
	// Search returns at most maxResults hits for query.
	Search(ctx context.Context, query string, maxResults int) ([]llm.SearchResult, error)

	// Name returns the provider name for logging
	Name() string
}
