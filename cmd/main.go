package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"room-assistant-platform/internal/ai"
	"room-assistant-platform/internal/config"
	"room-assistant-platform/internal/logger"
	"room-assistant-platform/internal/rag"
	"room-assistant-platform/internal/telemetry"
	"room-assistant-platform/middleware"
	"room-assistant-platform/routes"
	"room-assistant-platform/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg.GinMode == "debug")

	shutdownTracer, err := telemetry.InitTracer(cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		logger.Error("Failed to init tracer", "error", err)
		shutdownTracer = func() {}
	}
	defer shutdownTracer()

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Error("Failed to init metrics", "error", err)
	}

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		// Caching and rate limiting are optional; run without them.
		logger.Warn("Redis unavailable, caching and rate limiting disabled", "error", err)
		rdb = nil
	}

	// Gemini capabilities are optional. Without a key the service still
	// ingests documents and answers from keyword retrieval.
	var embedder rag.Embedder
	var completer rag.Completer
	if cfg.GeminiAPIKey != "" {
		embeddingClient, err := ai.NewEmbeddingClient(cfg.GeminiAPIKey, cfg.GeminiEmbeddingModel)
		if err != nil {
			logger.Warn("embedding client init failed, using keyword retrieval", "error", err)
		} else {
			embedder = embeddingClient
			defer embeddingClient.Close()
		}

		geminiClient, err := ai.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, metrics)
		if err != nil {
			logger.Warn("completion client init failed, using extractive answers", "error", err)
		} else {
			completer = geminiClient
			defer geminiClient.Close()
		}
	} else {
		logger.Info("no GEMINI_API_KEY configured, running with keyword retrieval and extractive answers")
	}

	extractor := services.NewDocumentExtractor()
	engine := rag.NewEngine(rag.EngineConfig{
		ChunkSize:         cfg.ChunkSize,
		WindowWords:       cfg.WindowWords,
		OverlapWords:      cfg.OverlapWords,
		MinTextLen:        cfg.MinTextLen,
		TopK:              cfg.TopK,
		MaxAnswerTokens:   cfg.GeminiMaxTokens,
		Temperature:       float32(cfg.GeminiTemperature),
		CapabilityTimeout: cfg.RequestTimeout,
	}, extractor, embedder, completer)

	if err := engine.Load(cfg.SnapshotPath); err != nil {
		logger.Warn("snapshot load failed, starting empty", "path", cfg.SnapshotPath, "error", err)
	}

	translator := services.NewTranslator(completer)
	voice := services.NewVoiceService()
	cache := services.NewAnswerCache(rdb, cfg.CacheTTL)

	autosaver := services.NewAutosaver(engine, cfg.SnapshotPath)
	if err := autosaver.Start(cfg.SnapshotInterval); err != nil {
		logger.Error("autosave setup failed", "error", err)
	}

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	router.Use(middleware.TracingMiddleware())
	router.Use(middleware.EnrichTrace())
	if metrics != nil {
		router.Use(middleware.MetricsMiddleware(metrics))
	}
	router.Use(middleware.RateLimitMiddleware(rdb, cfg.RateLimitReqs, cfg.RateLimitWindow))

	// Setup routes
	routes.SetupHealthRoute(router, engine, translator, voice, cache)
	routes.SetupDocumentRoutes(router, cfg, engine, cache, metrics)
	routes.SetupChatRoutes(router, routes.ChatDeps{
		Cfg:        cfg,
		Engine:     engine,
		Translator: translator,
		Voice:      voice,
		Cache:      cache,
		Metrics:    metrics,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	// Final snapshot before the process exits
	autosaver.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
