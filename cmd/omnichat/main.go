package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/omnichat-ai/omnichat/internal/api"
	"github.com/omnichat-ai/omnichat/internal/config"
	"github.com/omnichat-ai/omnichat/internal/llm"
	"github.com/omnichat-ai/omnichat/internal/repository"
	"github.com/omnichat-ai/omnichat/internal/search"
	"github.com/omnichat-ai/omnichat/internal/service"
	"go.uber.org/zap"
)

var (
	configPath = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := repository.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Search connectors, in fallback priority order
	aggregator := search.NewAggregator(logger,
		search.NewGoogleConnector(cfg.Search.Google),
		search.NewSerperConnector(cfg.Search.Serper),
		search.NewTavilyConnector(cfg.Search.Tavily),
		search.NewBraveConnector(cfg.Search.Brave),
		search.NewDuckDuckGoConnector(cfg.Search.DuckDuckGo),
	)

	// Completion providers
	registry := llm.NewRegistry(cfg.Providers)
	if registry.Len() == 0 {
		logger.Warn("no completion providers configured, chat requests will fail")
	} else {
		logger.Info("completion providers configured",
			zap.Strings("providers", registry.Names()),
			zap.Strings("search_engines", aggregator.Engines()),
		)
	}

	dispatcher := llm.NewDispatcher(logger)

	arbiter, err := registry.Get(cfg.Synthesis.Provider)
	if err != nil && registry.Len() > 0 {
		arbiter = registry.All()[0]
		logger.Warn("synthesis provider not configured, using first provider",
			zap.String("requested", cfg.Synthesis.Provider),
			zap.String("using", arbiter.Name()),
		)
	}
	synthesizer := llm.NewSynthesizer(arbiter, logger)

	// Initialize services
	orchestrator := service.NewOrchestrator(
		registry,
		aggregator,
		dispatcher,
		synthesizer,
		cfg.Synthesis.Provider,
		logger,
	)

	chatService := service.NewChatService(
		conversationRepo,
		messageRepo,
		orchestrator,
		logger,
	)

	// Setup router
	router := api.SetupRouter(chatService, api.RouterConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting OmniChat server",
			zap.String("address", cfg.Address()),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
