package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/meeting-summarizer/docs"
	"github.com/johnquangdev/meeting-summarizer/internal/adapter/handler"
	aiuse "github.com/johnquangdev/meeting-summarizer/internal/usecase/ai"
	pkgai "github.com/johnquangdev/meeting-summarizer/pkg/ai"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
	pkgvalidator "github.com/johnquangdev/meeting-summarizer/pkg/validator"
)

// @title           Meeting Summarizer API
// @version         1.0
// @description     Uploads meeting recordings for transcription and produces structured summaries with key decisions and action items.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

func main() {
	// Load configuration; refuse to start without provider credentials
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${id} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
	}))

	if cfg.Server.MaxUploadSize != "" {
		e.Use(middleware.BodyLimit(cfg.Server.MaxUploadSize))
	}

	// Initialize AI clients
	logger.Info("initializing AI components",
		zap.String("summary_provider", cfg.Summarizer.Provider),
	)
	asmClient := pkgai.NewAssemblyAIClient(&cfg.Assembly, nil)
	summarizer, err := newSummarizer(context.Background(), cfg)
	if err != nil {
		logger.Fatal("failed to initialize summarizer", zap.Error(err))
	}
	aiService := aiuse.NewAIService(asmClient, summarizer, logger)
	aiController := handler.NewAIController(aiService, logger)

	// Setup router with handlers
	router := handler.NewRouter(cfg, aiController)
	router.Setup(e)

	// Start server
	go func() {
		addr := cfg.GetServerAddr()
		logger.Info("starting server",
			zap.String("addr", addr),
			zap.String("environment", cfg.Server.Environment),
		)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newSummarizer selects the generative-language provider
func newSummarizer(ctx context.Context, cfg *config.Config) (pkgai.Summarizer, error) {
	if cfg.Summarizer.Provider == config.ProviderGroq {
		return pkgai.NewGroqClient(&cfg.Groq, nil), nil
	}
	return pkgai.NewGeminiClient(ctx, &cfg.Gemini, nil)
}
