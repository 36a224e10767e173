package llm

import (
	"context"
	"fmt"

	"blogsmith/internal/config"
	domainllm "blogsmith/internal/domain/services/llm"
	"blogsmith/internal/service/llm/providers/gemini"
	"blogsmith/internal/service/llm/providers/openai"
)

// ProviderFactory creates LLM provider instances from config
type ProviderFactory struct {
	config *config.Config
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{
		config: cfg,
	}
}

// GetProvider returns a provider instance for the given provider name
//
// Supported providers:
//   - "openai" - any OpenAI-compatible endpoint (Gemini's by default, LLM_BASE_URL)
//   - "gemini" - native Gemini API via the genai SDK
func (f *ProviderFactory) GetProvider(ctx context.Context, providerName string) (domainllm.Provider, error) {
	switch providerName {
	case "openai":
		return openai.NewProvider(f.config.GeminiAPIKey, f.config.LLMBaseURL)
	case "gemini":
		return gemini.NewProvider(ctx, f.config.GeminiAPIKey)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", providerName)
	}
}
