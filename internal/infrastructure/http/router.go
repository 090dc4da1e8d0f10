package http

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/bookhive/library-api/docs"
	"github.com/bookhive/library-api/internal/api"
	"github.com/bookhive/library-api/internal/api/metrics"
	"github.com/bookhive/library-api/internal/api/middleware"
	"github.com/bookhive/library-api/internal/infrastructure/http/handlers"
)

const bodyLimit = "16K"

// ServerOptions configures the shared echo instance.
type ServerOptions struct {
	Logger     zerolog.Logger
	CORSOrigin string
	Checks     []handlers.Check
	// Registerer receives the HTTP collectors. Nil means the default
	// registry, which is also what /metrics serves.
	Registerer prometheus.Registerer
}

// NewServer builds the echo instance with global middleware, the central
// error handler and the operational routes. API routes are added on top
// by api.NewRouter.
func NewServer(opts ServerOptions) (*echo.Echo, error) {
	httpMetrics, err := metrics.HTTPMiddleware(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("register http metrics: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.NewHTTPErrorHandler()

	origin := opts.CORSOrigin
	if origin == "" {
		origin = "*"
	}

	// --- Global middleware ---
	e.Use(echomw.RequestID())
	e.Use(httpMetrics)
	e.Use(middleware.RequestLogger(opts.Logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{origin},
		AllowCredentials: origin != "*",
	}))
	e.Use(echomw.BodyLimit(bodyLimit))

	// --- Operational routes ---
	health := handlers.NewHealthHandler(opts.Checks...)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
