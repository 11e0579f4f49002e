package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/talent-matcher/internal/config"
	"alfredoptarigan/talent-matcher/internal/handlers"
	"alfredoptarigan/talent-matcher/internal/logger"
	"alfredoptarigan/talent-matcher/internal/matching"
	"alfredoptarigan/talent-matcher/internal/middleware"
	"alfredoptarigan/talent-matcher/internal/repositories"
	"alfredoptarigan/talent-matcher/internal/services"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := cfg.Validate(); err != nil {
		zl.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := config.InitDatabase(cfg, zl)
	if err != nil {
		zl.Fatal("failed to initialize database", zap.Error(err))
	}

	candidateRepo := repositories.NewCandidateRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	runRepo := repositories.NewMatchRunRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zl.Fatal("failed to create upload directory", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gemini, err := services.NewGeminiService(ctx, cfg.Gemini.APIKey, cfg.Gemini.EmbedModel, zl)
	if err != nil {
		zl.Fatal("failed to initialize gemini", zap.Error(err))
	}
	embeddings := services.WithRetry(gemini, cfg.Worker.RetryMaxAttempts, cfg.Worker.RetryInitialDelay, zl)

	vectors, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, cfg.Qdrant.VectorSize, zl)
	if err != nil {
		zl.Fatal("failed to initialize qdrant", zap.Error(err))
	}
	if err := vectors.InitCollection(ctx); err != nil {
		zl.Fatal("failed to initialize qdrant collection", zap.Error(err))
	}

	patterns := matching.DefaultPatterns()

	indexer := services.NewIndexerService(
		candidateRepo,
		jobRepo,
		vectors,
		services.NewDocumentEmbedder(embeddings, services.NewTextChunker()),
		services.NewPDFParserService(),
		services.NewProfileExtractor(patterns),
		storageService,
		zl,
	)

	engine := matching.NewEngine(
		services.NewEmbeddingStore(candidateRepo, vectors, cfg.Matching.Concurrency, zl),
		matching.WithPatterns(patterns),
		matching.WithWeights(cfg.Matching.Weights),
		matching.WithConcurrency(cfg.Matching.Concurrency),
		matching.WithLogger(zl),
	)
	matchService := services.NewMatchService(engine, runRepo, zl)

	worker := services.NewWorker(runRepo, matchService, cfg.Worker.Concurrency, zl)
	worker.Start(ctx)

	app := fiber.New(fiber.Config{
		AppName:      "Talent Matcher API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestLogger(zl))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	auth := middleware.NewAuth(middleware.AuthConfig{
		Secret:         cfg.Auth.JWTSecret,
		Issuer:         cfg.Auth.JWTIssuer,
		AllowAnonymous: cfg.IsDevelopment(),
	}, zl)

	handlers.Register(api, handlers.Handlers{
		Candidates: handlers.NewCandidateHandler(indexer, storageService, cfg.Storage.MaxFileSize),
		Jobs:       handlers.NewJobHandler(indexer),
		Match:      handlers.NewMatchHandler(matchService, worker),
		Results:    handlers.NewResultHandler(matchService),
	}, auth)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Talent Matcher API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/candidates",
				"GET /api/v1/candidates/:id",
				"DELETE /api/v1/candidates/:id",
				"POST /api/v1/jobs",
				"GET /api/v1/jobs/:id",
				"GET /api/v1/jobs/:id/similar",
				"POST /api/v1/match",
				"POST /api/v1/match/async",
				"GET /api/v1/match/:id",
			},
		})
	})

	go func() {
		<-ctx.Done()
		zl.Info("shutting down server")
		worker.Stop()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zl.Info("server starting", zap.String("addr", addr), zap.String("env", cfg.Server.Env))

	if err := app.Listen(addr); err != nil {
		zl.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}

func requestLogger(zl *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		zl.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)),
		)
		return err
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
