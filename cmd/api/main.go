package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/config"
	"alfredoptarigan/resume-screener/internal/handlers"
	"alfredoptarigan/resume-screener/internal/logger"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("✅ Config loaded successfully")

	// Load the scoring rubric. A misconfigured rubric is fatal: scoring
	// with bad weights or inverted thresholds must never start.
	rubric, err := config.LoadRubric(cfg.Rubric.Path)
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			zapLogger.Fatal("❌ Invalid rubric configuration", zap.Error(err))
		}
		zapLogger.Fatal("❌ Failed to load rubric", zap.Error(err))
	}
	zapLogger.Info("✅ Rubric loaded successfully",
		zap.Float64("auto_advance", rubric.Thresholds.AutoAdvance),
		zap.Float64("manual_review", rubric.Thresholds.ManualReview),
	)

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		zapLogger.Fatal("❌ Failed to initialize database", zap.Error(err))
	}

	// Initialize repositories
	docRepo := repositories.NewDocumentRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	zapLogger.Info("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		zapLogger.Fatal("❌ Failed to create upload directory", zap.Error(err))
	}

	pdfParser := services.NewPDFParserService()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Worker.RetryInitialDelay, zapLogger)
	if err != nil {
		zapLogger.Fatal("❌ Failed to initialize Gemini AI", zap.Error(err))
	}
	zapLogger.Info("✅ Gemini AI initialized successfully", zap.String("model", cfg.Gemini.Model))

	extractorService, err := services.NewExtractorService(geminiService, cfg.Worker.RetryMaxAttempts, zapLogger)
	if err != nil {
		zapLogger.Fatal("❌ Failed to initialize extractor", zap.Error(err))
	}

	// Scoring pipeline
	normalizerService := services.NewNormalizerService()
	scorerService := services.NewScorerService(rubric)
	confidenceService := services.NewConfidenceService()
	decisionService := services.NewDecisionService(rubric, confidenceService)
	summaryService := services.NewSummaryService()

	var sender services.NotificationSender
	if cfg.Notifier.WebhookURL != "" {
		sender = services.NewWebhookSender(cfg.Notifier.WebhookURL, cfg.Notifier.Timeout, zapLogger)
		zapLogger.Info("✅ Webhook notifier configured", zap.String("url", cfg.Notifier.WebhookURL))
	} else {
		sender = services.NewLogSender(zapLogger)
		zapLogger.Info("✅ Log notifier configured")
	}
	dispatcherService := services.NewActionDispatcher(sender, zapLogger)

	pipelineService := services.NewPipelineService(
		normalizerService,
		scorerService,
		confidenceService,
		decisionService,
		summaryService,
		dispatcherService,
		zapLogger,
	)
	zapLogger.Info("✅ Scoring pipeline initialized")

	// Initialize evaluator
	evaluatorService := services.NewEvaluatorService(
		evalRepo,
		docRepo,
		extractorService,
		pdfParser,
		pipelineService,
		zapLogger,
	)
	zapLogger.Info("✅ Evaluator service initialized")

	// Initialize worker
	worker := services.NewWorker(
		evalRepo,
		evaluatorService,
		cfg.Worker.Concurrency,
		zapLogger,
	)

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)

	// Initialize handlers
	uploadHandler := handlers.NewUploadHandler(
		docRepo,
		storageService,
		cfg.Storage.MaxFileSize,
	)
	evaluateHandler := handlers.NewEvaluationHandler(
		evalRepo,
		docRepo,
		worker,
		pipelineService,
	)
	resultHandler := handlers.NewResultHandler(evalRepo)
	zapLogger.Info("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Screener API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSAllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Use(handlers.RateLimiter(cfg.Server.RateLimitPerMinute))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/documents/upload", uploadHandler.HandleUpload)
	api.Post("/evaluations/run", evaluateHandler.HandleRun)
	api.Post("/evaluations", evaluateHandler.HandleSubmit)
	api.Get("/evaluations/:id", resultHandler.HandleGetResult)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Screener API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/documents/upload",
				"POST /api/v1/evaluations/run",
				"POST /api/v1/evaluations",
				"GET /api/v1/evaluations/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		zapLogger.Info("🛑 Shutting down server...")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			zapLogger.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	zapLogger.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		zapLogger.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	body := fiber.Map{
		"error": err.Error(),
		"code":  code,
	}
	if requestID, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok && requestID != "" {
		body["request_id"] = requestID
	}

	return c.Status(code).JSON(body)
}
