package llm

// SearchResult is a single web search hit.
// Title is the deduplication key (exact, case-sensitive match).
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}
