package tools

import (
	llmSvc "blogsmith/internal/domain/services/llm"
)

// ToolRegistryBuilder provides a fluent API for building tool registries.
type ToolRegistryBuilder struct {
	registry *ToolRegistry
	config   *ToolConfig
}

// NewToolRegistryBuilder creates a new builder with a fresh registry.
func NewToolRegistryBuilder() *ToolRegistryBuilder {
	return &ToolRegistryBuilder{
		registry: NewToolRegistry(),
		config:   DefaultToolConfig(),
	}
}

// WithConfig sets custom tool configuration.
// If not called, defaults will be used.
func (b *ToolRegistryBuilder) WithConfig(config *ToolConfig) *ToolRegistryBuilder {
	if config != nil {
		b.config = config
	}
	return b
}

// WithSearch registers search_tool. Skipped when researcher is nil.
func (b *ToolRegistryBuilder) WithSearch(researcher llmSvc.Researcher) *ToolRegistryBuilder {
	if researcher != nil {
		b.registry.Register(NewSearchTool(researcher, b.config))
	}
	return b
}

// WithImage registers image_tool. Skipped when generator is nil.
func (b *ToolRegistryBuilder) WithImage(generator llmSvc.ImageGenerator) *ToolRegistryBuilder {
	if generator != nil {
		b.registry.Register(NewImageTool(generator, b.config))
	}
	return b
}

// Build returns the constructed tool registry.
func (b *ToolRegistryBuilder) Build() *ToolRegistry {
	return b.registry
}

// BuildBlogTools is a convenience method for the blog agent's search and image tools.
func BuildBlogTools(researcher llmSvc.Researcher, generator llmSvc.ImageGenerator) *ToolRegistry {
	return NewToolRegistryBuilder().
		WithSearch(researcher).
		WithImage(generator).
		Build()
}
