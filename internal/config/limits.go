package config

import "time"

const (
	// DefaultGeminiOpenAIBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultGeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	// DefaultUserID is used when a request does not name a user.
	DefaultUserID = "00000000-0000-0000-0000-000000000001"

	// DefaultLogMaxFiles is how many rotated server logs are kept in LOG_DIR.
	DefaultLogMaxFiles = 10
)

const (
	// MaxChatTitleLength is the maximum length for chat titles.
	// Chat titles are derived from the topic and truncated to this many characters.
	MaxChatTitleLength = 100

	// MaxTopicLength is the maximum length for a blog topic.
	MaxTopicLength = 500

	// MaxMessageContentLength bounds edited message content (~1MB).
	MaxMessageContentLength = 1 << 20
)

// Generation pipeline tuning.
const (
	// MaxGenerationAttempts bounds agent runs per request.
	MaxGenerationAttempts = 3

	// RateLimitBaseDelay is the first backoff step; each retry doubles it (5s, 10s, 20s).
	RateLimitBaseDelay = 5 * time.Second

	// EmptyOutputRetryDelay is the fixed wait before retrying a degenerate draft.
	EmptyOutputRetryDelay = 2 * time.Second

	// MinContentChars is the minimum number of non-whitespace characters for a usable draft.
	MinContentChars = 10

	// PolishMinWords is the word count at which a draft is considered a blog and gets polished.
	PolishMinWords = 150

	// MaxToolRounds bounds tool-use round trips within a single agent run.
	MaxToolRounds = 5
)

// Research limits.
const (
	// SearchResultsPerQuery is how many results each query variant asks for.
	SearchResultsPerQuery = 3

	// MaxSearchResults caps the merged, deduplicated result list.
	MaxSearchResults = 10
)
