// Package response renders the uniform JSON envelope every endpoint returns.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookhive/library-api/internal/api/validation"
	"github.com/bookhive/library-api/internal/core/domain"
)

// Envelope wraps every successful response.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// ErrorEnvelope wraps every failed response. Errors is only set for
// validation failures.
type ErrorEnvelope struct {
	StatusCode int                    `json:"statusCode"`
	Message    string                 `json:"message"`
	Success    bool                   `json:"success"`
	Errors     []validation.Violation `json:"errors,omitempty"`
}

// New builds an envelope; success follows from the status code.
func New(status int, data any, message string) Envelope {
	if message == "" {
		message = "Success"
	}
	return Envelope{StatusCode: status, Data: data, Message: message, Success: status < http.StatusBadRequest}
}

func NewError(status int, message string, violations []validation.Violation) ErrorEnvelope {
	return ErrorEnvelope{StatusCode: status, Message: message, Success: false, Errors: violations}
}

// JSON writes data wrapped in an envelope with the given status.
func JSON(c echo.Context, status int, data any, message string) error {
	return c.JSON(status, New(status, data, message))
}

// Page is the data payload of list endpoints.
type Page[T any] struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Items []T   `json:"items"`
}

func FromPage[T any](p *domain.Page[T]) Page[T] {
	return Page[T]{Total: p.Total, Page: p.Page, Limit: p.Limit, Items: p.Items}
}
