package tools

// ToolConfig centralizes limits for the blog agent's tools.
type ToolConfig struct {
	// MaxQueryLength bounds search_tool queries (characters)
	MaxQueryLength int

	// MaxPromptLength bounds image_tool prompts (characters); longer prompts are truncated
	MaxPromptLength int
}

// DefaultToolConfig returns the default tool configuration.
func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		MaxQueryLength:  500,
		MaxPromptLength: 1000,
	}
}
