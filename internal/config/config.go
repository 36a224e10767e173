package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	// LLM Configuration
	LLMProvider  string // "openai" (OpenAI-compatible endpoint) or "gemini" (native SDK)
	GeminiAPIKey string
	LLMBaseURL   string
	DefaultModel string
	// Research and image collaborators
	SearchProvider string // "duckduckgo" or "tavily"
	TavilyAPIKey   string
	StaticDir      string
	ImageDir       string
	// Persistence defaults
	DefaultUserID string
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	staticDir := getEnv("STATIC_DIR", "static")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: tablePrefix,
		// LLM Configuration
		LLMProvider:  getEnv("LLM_PROVIDER", "openai"),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		LLMBaseURL:   getEnv("LLM_BASE_URL", DefaultGeminiOpenAIBaseURL),
		DefaultModel: getEnv("DEFAULT_MODEL", "gemini-2.0-flash"),
		// Collaborators
		SearchProvider: getEnv("SEARCH_PROVIDER", defaultSearchProvider()),
		TavilyAPIKey:   getEnv("TAVILY_API_KEY", ""),
		StaticDir:      staticDir,
		ImageDir:       getEnv("IMAGE_DIR", staticDir+"/images"),
		DefaultUserID:  getEnv("DEFAULT_USER_ID", DefaultUserID),
		LogDir:         getEnv("LOG_DIR", ""),
		LogMaxFiles:    DefaultLogMaxFiles,
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// defaultSearchProvider picks Tavily when a key is configured, DuckDuckGo otherwise
func defaultSearchProvider() string {
	if os.Getenv("TAVILY_API_KEY") != "" {
		return "tavily"
	}
	return "duckduckgo"
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
