package search

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"blogsmith/internal/config"
	"blogsmith/internal/domain/models/llm"
	llmSvc "blogsmith/internal/domain/services/llm"
)

// queryVariantSuffixes derive the research queries from a topic, in merge order
var queryVariantSuffixes = []string{
	"",
	" latest research",
	" current trends",
}

// MultiSearcher fans a topic out into several query variants and merges the results.
type MultiSearcher struct {
	provider   Provider
	perQuery   int
	maxResults int
	logger     *slog.Logger
}

// NewMultiSearcher creates a searcher with the default per-query and total limits
func NewMultiSearcher(provider Provider, logger *slog.Logger) *MultiSearcher {
	return &MultiSearcher{
		provider:   provider,
		perQuery:   config.SearchResultsPerQuery,
		maxResults: config.MaxSearchResults,
		logger:     logger,
	}
}

var _ llmSvc.Researcher = (*MultiSearcher)(nil)

// QueryVariants returns the queries issued for a topic
func QueryVariants(topic string) []string {
	queries := make([]string, len(queryVariantSuffixes))
	for i, suffix := range queryVariantSuffixes {
		queries[i] = topic + suffix
	}
	return queries
}

// MultiSearch runs every query variant concurrently and returns the merged,
// deduplicated results. A failing variant contributes nothing; errors never
// reach the caller.
func (m *MultiSearcher) MultiSearch(ctx context.Context, topic string) []llm.SearchResult {
	queries := QueryVariants(topic)
	perVariant := make([][]llm.SearchResult, len(queries))

	var g errgroup.Group
	for i, query := range queries {
		g.Go(func() error {
			m.logger.Debug("searching web", "provider", m.provider.Name(), "query", query)

			results, err := m.provider.Search(ctx, query, m.perQuery)
			if err != nil {
				m.logger.Warn("search variant failed",
					"provider", m.provider.Name(),
					"query", query,
					"error", err,
				)
				return nil
			}

			m.logger.Debug("search variant finished", "query", query, "results", len(results))
			perVariant[i] = results
			return nil
		})
	}
	_ = g.Wait() // variants never return errors

	var all []llm.SearchResult
	for _, results := range perVariant {
		all = append(all, results...)
	}

	unique := DedupByTitle(all, m.maxResults)
	m.logger.Info("web research complete",
		"topic", topic,
		"raw_results", len(all),
		"unique_results", len(unique),
	)
	return unique
}

// DedupByTitle keeps the first result for each exact title, preserving order,
// and truncates to limit. Titles differing only in case or whitespace are kept
// as distinct results.
func DedupByTitle(results []llm.SearchResult, limit int) []llm.SearchResult {
	unique := make([]llm.SearchResult, 0, min(len(results), limit))
	seen := make(map[string]struct{}, len(results))

	for _, r := range results {
		if _, ok := seen[r.Title]; ok {
			continue
		}
		seen[r.Title] = struct{}{}
		unique = append(unique, r)
	}

	if len(unique) > limit {
		unique = unique[:limit]
	}
	return unique
}
