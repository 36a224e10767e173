package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"blogsmith/internal/capabilities"
	"blogsmith/internal/config"
	"blogsmith/internal/handler"
	"blogsmith/internal/middleware"
	"blogsmith/internal/repository/postgres"
	postgresBlog "blogsmith/internal/repository/postgres/blog"
	serviceBlog "blogsmith/internal/service/blog"
	"blogsmith/internal/service/image"
	serviceLLM "blogsmith/internal/service/llm"
	"blogsmith/internal/service/llm/agent"
	"blogsmith/internal/service/llm/pipeline"
	"blogsmith/internal/service/llm/tools"
	"blogsmith/internal/service/search"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Optional log file alongside stdout
	logger := config.NewLogger(cfg, nil)
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logger = config.NewLogger(cfg, logFile)
	}
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
		"llm_provider", cfg.LLMProvider,
		"model", cfg.DefaultModel,
	)

	if cfg.GeminiAPIKey == "" {
		log.Fatalf("GEMINI_API_KEY is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	logger.Info("database connected", "tables", tables.All())

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	userRepo := postgresBlog.NewUserRepository(repoConfig)
	chatRepo := postgresBlog.NewChatRepository(repoConfig)
	messageRepo := postgresBlog.NewMessageRepository(repoConfig)
	blogRepo := postgresBlog.NewBlogRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Research and illustration collaborators
	var searchProvider search.Provider
	switch cfg.SearchProvider {
	case "tavily":
		if cfg.TavilyAPIKey == "" {
			log.Fatalf("SEARCH_PROVIDER=tavily requires TAVILY_API_KEY")
		}
		searchProvider = search.NewTavilyProvider(cfg.TavilyAPIKey)
	case "duckduckgo":
		searchProvider = search.NewDuckDuckGoProvider()
	default:
		log.Fatalf("Unsupported search provider: %s", cfg.SearchProvider)
	}
	researcher := search.NewMultiSearcher(searchProvider, logger)

	imageGenerator, err := image.NewPollinationsGenerator(cfg.ImageDir, logger)
	if err != nil {
		log.Fatalf("Failed to set up image generator: %v", err)
	}

	toolRegistry := tools.BuildBlogTools(researcher, imageGenerator)

	// Model catalog
	capabilityRegistry, err := capabilities.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to initialize capability registry: %v", err)
	}
	if !capabilityRegistry.SupportsTools(capabilities.DefaultCatalog, cfg.DefaultModel) {
		logger.Warn("model is not catalogued as tool-capable", "model", cfg.DefaultModel)
	}

	// LLM provider
	providerRegistry := serviceLLM.NewProviderRegistry(serviceLLM.NewProviderFactory(cfg))
	if err := providerRegistry.Validate(); err != nil {
		log.Fatalf("Invalid LLM configuration: %v", err)
	}
	provider, err := providerRegistry.GetProvider(ctx, cfg.LLMProvider)
	if err != nil {
		log.Fatalf("Failed to create LLM provider: %v", err)
	}

	// Generation pipeline
	writer := agent.NewToolAgent(provider, toolRegistry, cfg.DefaultModel, logger)
	editor := pipeline.NewEditor(provider, cfg.DefaultModel, logger)
	generator := pipeline.New(writer, editor, logger)

	blogService := serviceBlog.NewService(userRepo, chatRepo, messageRepo, blogRepo, txManager, generator, cfg, logger)

	logger.Info("services initialized",
		"search_provider", searchProvider.Name(),
		"tools", toolRegistry.Names(),
	)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, handler.Handlers{
		Blog:    handler.NewBlogHandler(blogService, logger),
		Chat:    handler.NewChatHandler(blogService, logger),
		Message: handler.NewMessageHandler(blogService, logger),
		Models:  handler.NewModelsHandler(cfg, logger, capabilityRegistry),
		DB:      pool,
	})
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir))))

	// Order: CORS → Recovery → RequestLogger → Routes
	var h http.Handler = mux
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     h,
		ReadTimeout: 15 * time.Second,
		// Generation runs several model rounds, searches and image downloads
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
