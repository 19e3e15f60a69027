// Package http provides the HTTP server implementation for the dashboard.
package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/promptlens/promptlens/internal/service"
	v1 "github.com/promptlens/promptlens/internal/transport/http/v1"
	"github.com/promptlens/promptlens/internal/transport/ws"
)

// NewServer creates and configures the dashboard HTTP server, including
// the WebSocket live-tail route.
func NewServer(svc *service.Service, tailPollInterval time.Duration) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Handlers
	v1Handler := v1.NewHandler(svc)
	tailHandler := ws.NewTail(svc, tailPollInterval)

	// Register Routes
	v1Handler.RegisterRoutes(e)
	tailHandler.RegisterRoutes(e)

	return e
}
