// Package v1 provides the HTTP handlers for the dashboard API.
package v1

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/promptlens/promptlens/internal/adapter/telemetry"
	store "github.com/promptlens/promptlens/internal/repository"
	"github.com/promptlens/promptlens/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the dashboard routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// Projects
	e.POST("/v1/projects", h.CreateProject)
	e.GET("/v1/projects", h.ListProjects)
	e.GET("/v1/projects/:project_id", h.GetProject)

	// Prompt templates
	e.POST("/v1/projects/:project_id/templates", h.CreateTemplate)
	e.GET("/v1/projects/:project_id/templates", h.ListTemplates)
	e.GET("/v1/templates/:template_id", h.GetTemplate)
	e.PUT("/v1/templates/:template_id", h.UpdateTemplate)
	e.DELETE("/v1/templates/:template_id", h.DeleteTemplate)

	// API keys
	e.POST("/v1/projects/:project_id/keys", h.CreateAPIKey)
	e.GET("/v1/projects/:project_id/keys", h.ListAPIKeys)
	e.POST("/v1/keys/:key_id/revoke", h.RevokeAPIKey)

	// Budgets
	e.PUT("/v1/projects/:project_id/budgets", h.SetBudget)
	e.GET("/v1/projects/:project_id/budgets", h.ListBudgets)

	// Execution telemetry (read-only)
	e.GET("/v1/projects/:project_id/executions", h.ListExecutions)
	e.GET("/v1/projects/:project_id/executions/:trace_id", h.GetExecution)
	e.GET("/v1/projects/:project_id/executions/:trace_id/timeline", h.GetExecutionTimeline)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// fail maps service errors onto HTTP responses.
func fail(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, telemetry.ErrNotFound) {
		status = http.StatusNotFound
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
