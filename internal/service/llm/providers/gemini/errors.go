package gemini

import (
	"errors"
	"net"

	"google.golang.org/genai"

	domainllm "blogsmith/internal/domain/services/llm"
)

// statusResourceExhausted is the gRPC status Gemini reports for quota and rate limits
const statusResourceExhausted = "RESOURCE_EXHAUSTED"

// classifyError wraps an SDK error in a ProviderError with a structural failure kind.
func classifyError(err error) error {
	kind := domainllm.FailureUnknown
	status := 0

	if apiErr, ok := asAPIError(err); ok {
		status = apiErr.Code
		kind = domainllm.KindFromStatus(status)
		if apiErr.Status == statusResourceExhausted {
			kind = domainllm.FailureRateLimit
		}
	} else {
		var netErr net.Error
		if errors.As(err, &netErr) {
			kind = domainllm.FailureNetwork
		}
	}

	return &domainllm.ProviderError{
		Kind:       kind,
		StatusCode: status,
		Provider:   providerName,
		Err:        err,
	}
}

// asAPIError finds a genai.APIError in the chain. The SDK returns it by value,
// pointers are accepted as well.
func asAPIError(err error) (genai.APIError, bool) {
	var byValue genai.APIError
	if errors.As(err, &byValue) {
		return byValue, true
	}
	var byPointer *genai.APIError
	if errors.As(err, &byPointer) && byPointer != nil {
		return *byPointer, true
	}
	return genai.APIError{}, false
}
