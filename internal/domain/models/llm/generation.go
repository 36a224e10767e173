package llm

import "time"

// GenerationRequest asks the pipeline for one blog post.
// ChatID is an opaque conversation handle the pipeline passes through untouched.
type GenerationRequest struct {
	Topic  string  `json:"topic"`
	ChatID *string `json:"chat_id,omitempty"`
}

// GenerationResult is the terminal artifact of a pipeline run.
// BlogContent is never empty; ImageURL is nil when no image was produced.
type GenerationResult struct {
	BlogContent string  `json:"blog_content"`
	ImageURL    *string `json:"image_url"`
	Attempts    int     `json:"attempts"`
	Polished    bool    `json:"polished"`
}

// AgentRunOutcome is what a single agent run produced.
// ImageURL is "" when the image tool was not called or failed.
type AgentRunOutcome struct {
	RawText     string
	ImageURL    string
	Invocations []ToolInvocation
}

// ToolInvocation records that the agent called a tool. Audit only, never persisted.
type ToolInvocation struct {
	Tool     string    `json:"tool"`
	Argument string    `json:"argument"`
	At       time.Time `json:"at"`
}
