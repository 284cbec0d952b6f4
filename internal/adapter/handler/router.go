package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/meeting-summarizer/internal/adapter/dto/common"
	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg          *config.Config
	aiController *AIController
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, aiController *AIController) *Router {
	return &Router{
		cfg:          cfg,
		aiController: aiController,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API documentation
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	rt.setupAIRoutes(api)
}

// setupAIRoutes configures the transcription and summarization relay
func (rt *Router) setupAIRoutes(g *echo.Group) {
	g.POST("/transcribe", rt.aiController.Transcribe)
	g.GET("/transcript/:id", rt.aiController.GetTranscript)
	g.POST("/summarize", rt.aiController.Summarize)
}

// healthCheck returns health status
// @Summary      Health check
// @Tags         System
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Router       /health [get]
func (rt *Router) healthCheck(c echo.Context) error {
	env := ""
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, common.HealthResponse{
		Status:      "ok",
		Environment: env,
	})
}
