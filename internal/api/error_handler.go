package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/library-api/internal/api/response"
	"github.com/bookhive/library-api/internal/api/validation"
	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/pkg/logger"
)

const unauthorizedMessage = "Unauthorized request"

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain and
// validation errors to status codes and renders them as an error envelope.
// Unexpected errors are logged through the request-scoped logger and
// reported as a bare 500.
func NewHTTPErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		env := resolveError(err, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(env.StatusCode)
			return
		}
		_ = c.JSON(env.StatusCode, env)
	}
}

func resolveError(err error, c echo.Context) response.ErrorEnvelope {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return response.NewError(http.StatusBadRequest, "Validation failed", verr.Violations)
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(c, err)
		}
		return response.NewError(he.Code, fmt.Sprintf("%v", he.Message), nil)
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrTokenMalformed),
		errors.Is(err, domain.ErrTokenSignatureInvalid),
		errors.Is(err, domain.ErrTokenExpired):
		return response.NewError(http.StatusUnauthorized, unauthorizedMessage, nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return response.NewError(http.StatusUnauthorized, "Invalid user credentials", nil)
	case errors.Is(err, domain.ErrTooManyAttempts):
		return response.NewError(http.StatusTooManyRequests, "Too many failed login attempts, try again later", nil)
	case errors.Is(err, domain.ErrForbidden):
		return response.NewError(http.StatusForbidden, "Access forbidden", nil)
	case errors.Is(err, domain.ErrUserExists):
		return response.NewError(http.StatusConflict, "User with email or username already exists", nil)
	case errors.Is(err, domain.ErrAuthorHasBooks):
		return response.NewError(http.StatusConflict, "Author still has books and cannot be deleted", nil)
	case errors.Is(err, domain.ErrMissingFields):
		return response.NewError(http.StatusBadRequest, "All fields are required", nil)
	case errors.Is(err, domain.ErrSearchCriteria):
		return response.NewError(http.StatusBadRequest, "You must provide either an author name or a book title for search", nil)
	case errors.Is(err, domain.ErrUserNotFound):
		return response.NewError(http.StatusNotFound, "User not found", nil)
	case errors.Is(err, domain.ErrAuthorNotFound):
		return response.NewError(http.StatusNotFound, "Author not found", nil)
	case errors.Is(err, domain.ErrInvalidAuthorID):
		return response.NewError(http.StatusNotFound, "Invalid author id", nil)
	case errors.Is(err, domain.ErrBookNotFound):
		return response.NewError(http.StatusNotFound, "Book not found", nil)
	case errors.Is(err, domain.ErrNoSearchResults):
		return response.NewError(http.StatusNotFound, "No books found matching the search criteria", nil)
	}

	logUnhandled(c, err)
	return response.NewError(http.StatusInternalServerError, "internal server error", nil)
}

func logUnhandled(c echo.Context, err error) {
	logger.FromContext(c.Request().Context()).Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
}
