package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"alfredoptarigan/resume-checker/internal/config"
	"alfredoptarigan/resume-checker/internal/handlers"
	"alfredoptarigan/resume-checker/internal/logger"
	"alfredoptarigan/resume-checker/internal/repositories"
	"alfredoptarigan/resume-checker/internal/services"
)

// formOverhead leaves room for the job description fields next to the file.
const formOverhead = 1 << 20

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.Logger)

	if err := cfg.Analysis.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid analysis configuration")
	}
	logger.Info().Str("env", cfg.Server.Env).Msg("config loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}

	docRepo := repositories.NewDocumentRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)

	// Initialize services
	storageService, err := services.NewStorageService(ctx, cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("failed to initialize storage")
	}

	extractor, err := services.NewDocumentExtractor(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize document extractor")
	}

	embedder, err := services.NewEmbedder(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize embedder")
	}
	logger.Info().
		Str("model", embedder.Model()).
		Bool("cache", cfg.Embedding.CacheEnabled).
		Msg("embedder initialized")

	pipeline := services.NewPipeline(extractor, embedder, cfg.Analysis)
	analysisService := services.NewAnalysisService(analysisRepo, docRepo, storageService, pipeline)

	// Initialize worker
	worker := services.NewWorker(analysisRepo, analysisService, cfg.Worker)
	worker.Start(ctx)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Relevance Checker API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + formOverhead,
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	handlers.RegisterRoutes(app.Group("/api/v1"), handlers.Handlers{
		Analyze:  handlers.NewAnalyzeHandler(analysisService, cfg.Storage.MaxFileSize),
		Upload:   handlers.NewUploadHandler(docRepo, storageService),
		Evaluate: handlers.NewEvaluationHandler(analysisService, worker),
		Result:   handlers.NewResultHandler(analysisService),
	})

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Relevance Checker API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET /api/v1/health",
				"POST /api/v1/analyze",
				"POST /api/v1/upload",
				"POST /api/v1/evaluate",
				"GET /api/v1/result/:id",
				"GET /api/v1/analyses",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info().Msg("shutting down server")
		worker.Stop()
		cancel()
		if err := app.Shutdown(); err != nil {
			logger.Error().Err(err).Msg("server forced to shutdown")
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server starting")

	if err := app.Listen(addr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
