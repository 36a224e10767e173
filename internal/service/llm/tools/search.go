package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"blogsmith/internal/domain/models/llm"
	llmSvc "blogsmith/internal/domain/services/llm"
)

// NoSearchResults is returned to the model when research found nothing
const NoSearchResults = "No search results found."

// SearchDigest is the search_tool result: the sources rendered for the model.
type SearchDigest []llm.SearchResult

// String renders each source as "Source: <title>\n<snippet>", separated by blank lines
func (d SearchDigest) String() string {
	if len(d) == 0 {
		return NoSearchResults
	}

	blocks := make([]string, len(d))
	for i, r := range d {
		blocks[i] = fmt.Sprintf("Source: %s\n%s", r.Title, r.Snippet)
	}
	return strings.Join(blocks, "\n\n")
}

// SearchTool implements 'search_tool': multi-variant web research on a topic.
type SearchTool struct {
	researcher llmSvc.Researcher
	config     *ToolConfig
}

// NewSearchTool creates a new SearchTool instance.
func NewSearchTool(researcher llmSvc.Researcher, config *ToolConfig) *SearchTool {
	if config == nil {
		config = DefaultToolConfig()
	}
	return &SearchTool{
		researcher: researcher,
		config:     config,
	}
}

// Definition implements ToolExecutor
func (t *SearchTool) Definition() llm.ToolDefinition {
	return llm.GetBlogToolDefinitions()[0]
}

// Execute implements ToolExecutor.
// Input parameters:
//   - query (string, required): topic to research ("topic" is accepted as an alias)
//
// Returns a SearchDigest. Research failures surface as an empty digest, never an error.
func (t *SearchTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	query := stringArg(input, "query", "topic")
	if query == "" {
		return nil, errors.New("missing required parameter: query (string)")
	}
	if n := utf8.RuneCountInString(query); n > t.config.MaxQueryLength {
		return nil, fmt.Errorf("query too long: %d characters (max %d)", n, t.config.MaxQueryLength)
	}

	return SearchDigest(t.researcher.MultiSearch(ctx, query)), nil
}

// stringArg returns the first non-empty string argument among keys, trimmed
func stringArg(input map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := input[key].(string); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}
