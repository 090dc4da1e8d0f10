// Package metrics defines the Prometheus collectors of the library API.
// Domain collectors register with the default registry on import; the HTTP
// ones come from echoprometheus.
package metrics

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "library"

// ── Auth ──────────────────────────────────────────────────────────────────────

// TokenRejectionsTotal counts requests the auth stage turned away.
// Label reason: missing, malformed, signature_invalid, expired, unknown_account.
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_token_rejections_total",
		Help:      "Total number of requests rejected by token authentication, by reason.",
	},
	[]string{"reason"},
)

// LoginAttemptsTotal counts login outcomes.
// Label result: success, invalid_credentials, throttled, error.
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegistrationsTotal counts accounts created.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_registrations_total",
		Help:      "Total number of accounts registered.",
	},
)

// ── Catalog ───────────────────────────────────────────────────────────────────

// CatalogWritesTotal counts successful catalog mutations.
// Labels: entity (author, book), op (create, update, delete).
var CatalogWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_writes_total",
		Help:      "Total number of successful author and book writes.",
	},
	[]string{"entity", "op"},
)

// HTTPMiddleware builds the request collectors (library_http_requests_total,
// library_http_request_duration_seconds and the size histograms) labelled by
// code, method, host and route. A nil reg means the default registry.
//
// It must run outside the middleware that hands errors to the error handler:
// the status is read from the committed response.
func HTTPMiddleware(reg prometheus.Registerer) (echo.MiddlewareFunc, error) {
	return echoprometheus.MiddlewareConfig{
		Namespace:                 namespace,
		Subsystem:                 "http",
		Registerer:                reg,
		DoNotUseRequestPathFor404: true,
		StatusCodeResolver: func(c echo.Context, _ error) int {
			return c.Response().Status
		},
	}.ToMiddleware()
}
