package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/chat-service/internal/api/http"
	"github.com/spec-kit/chat-service/internal/api/http/handlers"
	"github.com/spec-kit/chat-service/internal/auth"
	"github.com/spec-kit/chat-service/internal/cache"
	"github.com/spec-kit/chat-service/internal/config"
	"github.com/spec-kit/chat-service/internal/events"
	"github.com/spec-kit/chat-service/internal/llm"
	"github.com/spec-kit/chat-service/internal/observability"
	"github.com/spec-kit/chat-service/internal/persistence"
	"github.com/spec-kit/chat-service/internal/repository"
	"github.com/spec-kit/chat-service/internal/service"
	"github.com/spec-kit/chat-service/internal/web"
	"github.com/spec-kit/chat-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := repository.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer store.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	readiness := map[string]handlers.Pinger{store.Driver(): store}
	var statsCache service.StatsCache
	if redis.Client != nil {
		statsCache = cache.NewStatsCache(redis.Client, cfg.Stats.CacheTTL())
		readiness["redis"] = redis
	}

	if cfg.LLM.APIKey == "" {
		logger.Warn("LLM_API_KEY not provided; chat requests will fail upstream")
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	hasher, err := auth.NewHasher(cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatal("failed to init password hasher", zap.Error(err))
	}
	authService, err := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   store.Users,
		Hasher:     hasher,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}

	profileService := service.NewProfileService(store.Users, hasher)
	chatService := service.NewChatService(store.Conversations, llm.NewGeminiClient(cfg.LLM), dispatcher, logger)
	conversationService := service.NewConversationService(store.Conversations, dispatcher, logger)
	statsService := service.NewStatsService(store.Conversations, statsCache, logger)
	analyticsService := service.NewAnalyticsService(store.Analytics)

	worker.StartActivityWorker(service.NewActivityService(dispatcher, analyticsService, statsService, logger))

	renderer, err := web.NewRenderer(web.NewMarkdown())
	if err != nil {
		logger.Fatal("failed to load templates", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		Views:                 renderer,
		DisableStartupMessage: cfg.App.IsProduction(),
		// The chat endpoint waits on the language model.
		WriteTimeout: cfg.LLM.Timeout() + 10*time.Second,
		ReadTimeout:  30 * time.Second,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	secure := cfg.Auth.SecureCookie
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Auth:   handlers.NewAuthHandler(authService, metrics, secure),
		Pages: handlers.NewPagesHandler(handlers.PagesDependencies{
			Auth:          authService,
			Profiles:      profileService,
			Conversations: conversationService,
			Stats:         statsService,
			Metrics:       metrics,
			Logger:        logger,
			SecureCookie:  secure,
		}),
		Chat:           handlers.NewChatHandler(chatService),
		Conversations:  handlers.NewConversationsHandler(conversationService),
		Stats:          handlers.NewStatsHandler(statsService),
		Analytics:      handlers.NewAnalyticsHandler(analyticsService),
		Profile:        handlers.NewProfileHandler(profileService, authService, secure),
		AuthMiddleware: auth.NewAuthMiddleware(authService, secure),
		AdminLookup:    store.Users,
		Metrics:        metrics,
	})

	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.App.Addr()), zap.String("store", store.Driver()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
