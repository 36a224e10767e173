package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"blogsmith/internal/config"
	"blogsmith/internal/domain"
	"blogsmith/internal/domain/models/llm"
	domainllm "blogsmith/internal/domain/services/llm"
	"blogsmith/internal/utils"
)

// EmptyOutputFallback replaces a draft that stayed degenerate on every attempt.
const EmptyOutputFallback = "I'm sorry, I wasn't able to write anything for this topic. " +
	"Please try again in a moment or rephrase your request."

// systemErrorPrefix labels hard failures in BlogContent
const systemErrorPrefix = "System Error: "

// Pipeline turns a topic into a finished blog: agent run with retries, then polish.
type Pipeline struct {
	agent  domainllm.Agent
	editor *Editor
	sleep  Sleeper
	logger *slog.Logger

	maxAttempts     int
	rateLimitDelay  time.Duration
	emptyRetryDelay time.Duration
	minContentChars int
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSleeper replaces the timer-based wait, mostly for tests.
func WithSleeper(s Sleeper) Option {
	return func(p *Pipeline) { p.sleep = s }
}

// New creates a pipeline. editor may be nil to skip polishing.
func New(agent domainllm.Agent, editor *Editor, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		agent:           agent,
		editor:          editor,
		sleep:           TimerSleep,
		logger:          logger,
		maxAttempts:     config.MaxGenerationAttempts,
		rateLimitDelay:  config.RateLimitBaseDelay,
		emptyRetryDelay: config.EmptyOutputRetryDelay,
		minContentChars: config.MinContentChars,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate implements domainllm.Generator. It always returns a result with
// non-empty BlogContent.
func (p *Pipeline) Generate(ctx context.Context, req *llm.GenerationRequest) *llm.GenerationResult {
	if err := validateRequest(req); err != nil {
		return systemError(err, 0)
	}

	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		last := attempt == p.maxAttempts-1

		// Every run starts with an empty image slot; the outcome carries its own.
		outcome, err := p.agent.Run(ctx, req.Topic)
		if err != nil {
			kind := domainllm.KindOf(err)
			if !kind.Retryable() || last {
				p.logger.Error("agent run failed",
					"attempt", attempt+1,
					"kind", kind.String(),
					"error", err,
				)
				return systemError(err, attempt+1)
			}

			delay := backoffDelay(p.rateLimitDelay, attempt)
			p.logger.Warn("agent rate limited, backing off",
				"attempt", attempt+1,
				"delay", delay,
			)
			if err := p.sleep(ctx, delay); err != nil {
				return systemError(fmt.Errorf("backoff interrupted: %w", err), attempt+1)
			}
			continue
		}
		if outcome == nil {
			outcome = &llm.AgentRunOutcome{}
		}

		if !utils.HasMinContent(outcome.RawText, p.minContentChars) {
			if last {
				p.logger.Warn("agent produced no usable draft, returning fallback", "attempts", attempt+1)
				return &llm.GenerationResult{
					BlogContent: EmptyOutputFallback,
					Attempts:    attempt + 1,
				}
			}

			p.logger.Warn("agent draft too short, retrying",
				"attempt", attempt+1,
				"chars", utils.CountNonSpace(outcome.RawText),
			)
			if err := p.sleep(ctx, p.emptyRetryDelay); err != nil {
				return systemError(fmt.Errorf("retry wait interrupted: %w", err), attempt+1)
			}
			continue
		}

		content, polished := outcome.RawText, false
		if p.editor != nil {
			content, polished = p.editor.Polish(ctx, outcome.RawText, p.sleep)
		}

		result := &llm.GenerationResult{
			BlogContent: content,
			Attempts:    attempt + 1,
			Polished:    polished,
		}
		if outcome.ImageURL != "" {
			image := outcome.ImageURL
			result.ImageURL = &image
		}

		p.logger.Info("blog generated",
			"attempts", result.Attempts,
			"polished", polished,
			"words", utils.CountWords(content),
			"has_image", result.ImageURL != nil,
			"tool_calls", len(outcome.Invocations),
		)
		return result
	}

	// maxAttempts < 1
	return systemError(errors.New("no generation attempts configured"), 0)
}

func validateRequest(req *llm.GenerationRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", domain.ErrValidation)
	}
	err := validation.ValidateStruct(req,
		validation.Field(&req.Topic, validation.Required, validation.Length(1, config.MaxTopicLength)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func systemError(err error, attempts int) *llm.GenerationResult {
	return &llm.GenerationResult{
		BlogContent: systemErrorPrefix + err.Error(),
		Attempts:    attempts,
	}
}
