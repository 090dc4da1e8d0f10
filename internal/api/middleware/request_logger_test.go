package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/pkg/logger"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var line map[string]any
		if err := json.Unmarshal([]byte(raw), &line); err != nil {
			t.Fatalf("invalid log line %q: %v", raw, err)
		}
		lines = append(lines, line)
	}
	return lines
}

func newLoggedEcho(buf *bytes.Buffer) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		_ = c.NoContent(http.StatusNotFound)
	}
	e.Use(echomw.RequestID())
	e.Use(RequestLogger(zerolog.New(buf)))
	return e
}

func TestRequestLogger_ScopesLoggerToRequest(t *testing.T) {
	var buf bytes.Buffer
	e := newLoggedEcho(&buf)
	e.GET("/books/:id", func(c echo.Context) error {
		logger.FromContext(c.Request().Context()).Info().Msg("inside handler")
		return domain.ErrBookNotFound
	})

	req := httptest.NewRequest(http.MethodGet, "/books/9", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected the error handler's 404, got %d", rec.Code)
	}

	lines := logLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected handler line and access line, got %d: %s", len(lines), buf.String())
	}
	for _, line := range lines {
		if line["request_id"] != "req-1" {
			t.Fatalf("line without request id: %v", line)
		}
	}

	access := lines[1]
	if access["message"] != "request" || access["status"].(float64) != 404 || access["level"] != "warn" {
		t.Fatalf("unexpected access line %v", access)
	}
	if access["route"] != "/books/:id" || access["path"] != "/books/9" {
		t.Fatalf("route and path not logged: %v", access)
	}
}

func TestRequestLogger_RecordsAuthenticatedUser(t *testing.T) {
	tokens := newTokens(t)
	resolver := &stubResolver{users: map[string]*domain.User{"ana": {ID: 1, Username: "ana"}}}

	var buf bytes.Buffer
	e := newLoggedEcho(&buf)
	e.GET("/me", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, Pipeline(Auth(tokens, resolver)))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+issue(t, tokens, "ana"))
	e.ServeHTTP(httptest.NewRecorder(), req)

	lines := logLines(t, &buf)
	access := lines[len(lines)-1]
	if access["user"] != "ana" || access["status"].(float64) != 204 {
		t.Fatalf("expected user on access line, got %v", access)
	}
	if id, _ := access["request_id"].(string); id == "" {
		t.Fatalf("generated request id missing: %v", access)
	}
}
