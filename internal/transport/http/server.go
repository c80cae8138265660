// Package http provides the HTTP server implementation for the engagement
// engine.
package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shoplift/engage/internal/service"
	"github.com/shoplift/engage/internal/transport/http/internalapi"
	v1 "github.com/shoplift/engage/internal/transport/http/v1"
)

// NewExternalServer creates and configures the storefront-facing HTTP
// server: chat, recommendations, the abandonment webhook and code checks.
func NewExternalServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	v1.NewHandler(svc).RegisterRoutes(e)

	return e
}

// NewInternalServer creates and configures the internal-facing HTTP server
// used by the job orchestrator.
func NewInternalServer(svc *service.Service) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	internalapi.NewHandler(svc).RegisterRoutes(e)

	return e
}
