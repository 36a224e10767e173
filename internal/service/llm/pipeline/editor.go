package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"blogsmith/internal/config"
	"blogsmith/internal/domain/models/llm"
	domainllm "blogsmith/internal/domain/services/llm"
	"blogsmith/internal/utils"
)

// polishInstruction precedes the draft in the editor request.
const polishInstruction = "You are a professional blog editor. Please polish and refine the following blog post. " +
	"Improve the flow, grammar, and professional tone while keeping the core information intact. " +
	"CRITICAL: Return ONLY the polished blog post as plain text or markdown. " +
	"DO NOT include any introductory sentences, meta-talk, options, or explanations. " +
	"Just the final polished content.\n\n"

// Editor runs the polish pass. It never fails: every error path returns the draft.
type Editor struct {
	provider    domainllm.Provider
	model       string
	minWords    int
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// NewEditor creates an editor that polishes with model on provider.
func NewEditor(provider domainllm.Provider, model string, logger *slog.Logger) *Editor {
	return &Editor{
		provider:    provider,
		model:       model,
		minWords:    config.PolishMinWords,
		maxAttempts: config.MaxGenerationAttempts,
		baseDelay:   config.RateLimitBaseDelay,
		logger:      logger,
	}
}

// Polish returns the edited draft and whether the editor's output was used.
// Drafts under minWords words are returned byte-for-byte.
func (e *Editor) Polish(ctx context.Context, draft string, sleep Sleeper) (string, bool) {
	if utils.CountWords(draft) < e.minWords {
		return draft, false
	}

	req := &domainllm.CompletionRequest{
		Model:    e.model,
		Messages: []llm.Message{{Role: llm.RoleUser, Content: polishInstruction + draft}},
	}

	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		resp, err := e.provider.Complete(ctx, req)
		if err == nil {
			polished := strings.TrimSpace(resp.Content)
			if polished == "" {
				e.logger.Warn("polish returned empty output, keeping draft")
				return draft, false
			}
			return polished, true
		}

		if !domainllm.IsRateLimited(err) || attempt == e.maxAttempts-1 {
			e.logger.Warn("polish failed, keeping draft", "attempt", attempt+1, "error", err)
			return draft, false
		}

		delay := backoffDelay(e.baseDelay, attempt)
		e.logger.Info("polish rate limited, backing off", "attempt", attempt+1, "delay", delay)
		if err := sleep(ctx, delay); err != nil {
			e.logger.Warn("polish backoff interrupted, keeping draft", "error", err)
			return draft, false
		}
	}
	return draft, false
}
