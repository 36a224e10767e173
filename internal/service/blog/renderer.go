package blog

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLRenderer converts blog markdown to HTML that is safe to embed.
// Model output is untrusted, so every render is sanitized.
//
// Thread-safe for concurrent use.
type HTMLRenderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

// NewHTMLRenderer creates a renderer with GitHub-flavored markdown and a UGC policy.
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   bluemonday.UGCPolicy(),
	}
}

// Render returns sanitized HTML for markdown.
func (r *HTMLRenderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}
