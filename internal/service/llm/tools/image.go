package tools

import (
	"context"
	"errors"
	"fmt"

	"blogsmith/internal/domain/models/llm"
	llmSvc "blogsmith/internal/domain/services/llm"
)

// ImageResult is the image_tool result. Path is "" when generation failed.
type ImageResult struct {
	Prompt string
	Path   string
}

// String is the confirmation the model sees
func (r ImageResult) String() string {
	if r.Path == "" {
		return fmt.Sprintf("[Image generation failed: %s]", r.Prompt)
	}
	return fmt.Sprintf("[Image Generated: %s]", r.Prompt)
}

// ImageTool implements 'image_tool': generates and stores a featured image.
type ImageTool struct {
	generator llmSvc.ImageGenerator
	config    *ToolConfig
}

// NewImageTool creates a new ImageTool instance.
func NewImageTool(generator llmSvc.ImageGenerator, config *ToolConfig) *ImageTool {
	if config == nil {
		config = DefaultToolConfig()
	}
	return &ImageTool{
		generator: generator,
		config:    config,
	}
}

// Definition implements ToolExecutor
func (t *ImageTool) Definition() llm.ToolDefinition {
	return llm.GetBlogToolDefinitions()[1]
}

// Execute implements ToolExecutor.
// Input parameters:
//   - prompt (string, required): visual description of the image
//
// Returns an ImageResult. A failed generation is not an error: Path is empty.
func (t *ImageTool) Execute(ctx context.Context, input map[string]interface{}) (interface{}, error) {
	prompt := stringArg(input, "prompt", "description")
	if prompt == "" {
		return nil, errors.New("missing required parameter: prompt (string)")
	}
	if runes := []rune(prompt); len(runes) > t.config.MaxPromptLength {
		prompt = string(runes[:t.config.MaxPromptLength])
	}

	return ImageResult{
		Prompt: prompt,
		Path:   t.generator.Generate(ctx, prompt),
	}, nil
}
