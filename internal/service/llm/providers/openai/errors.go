package openai

import (
	"context"
	"errors"
	"net"

	"github.com/openai/openai-go"

	domainllm "blogsmith/internal/domain/services/llm"
)

// classifyError wraps an SDK error in a ProviderError with a structural failure kind.
func classifyError(err error) error {
	kind := domainllm.FailureUnknown
	status := 0

	var apiErr *openai.Error
	var netErr net.Error
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.StatusCode
		kind = domainllm.KindFromStatus(status)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = domainllm.FailureUnknown
	case errors.As(err, &netErr):
		kind = domainllm.FailureNetwork
	}

	return &domainllm.ProviderError{
		Kind:       kind,
		StatusCode: status,
		Provider:   providerName,
		Err:        err,
	}
}
