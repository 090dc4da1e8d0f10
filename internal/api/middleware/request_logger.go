package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/bookhive/library-api/pkg/logger"
)

// RequestLogger puts a child of base carrying the request id into the
// request context and writes one access line per request. Errors are handed
// to the echo error handler here, so the logged status is the rendered one.
// It expects the RequestID middleware to run first.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		HandleError:  true,
		LogLatency:   true,
		LogMethod:    true,
		LogURIPath:   true,
		LogRoutePath: true,
		LogStatus:    true,
		LogRemoteIP:  true,
		BeforeNextFunc: func(c echo.Context) {
			l := base.With().Str("request_id", requestID(c)).Logger()
			req := c.Request()
			c.SetRequest(req.WithContext(l.WithContext(req.Context())))
		},
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			ctx := c.Request().Context()
			l := logger.FromContext(ctx)

			evt := l.Info()
			switch {
			case v.Status >= 500:
				evt = l.Error()
			case v.Status >= 400:
				evt = l.Warn()
			}
			if user, ok := UserFromContext(ctx); ok {
				evt = evt.Str("user", user.Username)
			}
			evt.Str("method", v.Method).
				Str("path", v.URIPath).
				Str("route", v.RoutePath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

func requestID(c echo.Context) string {
	if id := c.Request().Header.Get(echo.HeaderXRequestID); id != "" {
		return id
	}
	return c.Response().Header().Get(echo.HeaderXRequestID)
}
