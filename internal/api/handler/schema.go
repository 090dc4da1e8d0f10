package handler

import (
	"github.com/bookhive/library-api/internal/api/validation"
	"github.com/bookhive/library-api/internal/core/domain"
)

// Request and response shapes as they appear in the API docs. Handlers read
// input through the validation result, not by binding these.

type registerRequest struct {
	Username string `json:"username" example:"ursula"`
	Fullname string `json:"fullname" example:"Ursula K. Le Guin"`
	Email    string `json:"email" example:"ursula@example.com"`
	Password string `json:"password" example:"earthsea"`
}

type loginRequest struct {
	Email    string `json:"email" example:"ursula@example.com"`
	Password string `json:"password" example:"earthsea"`
}

type authorRequest struct {
	Name      string `json:"name" example:"Octavia E. Butler"`
	Bio       string `json:"bio,omitempty"`
	Birthdate string `json:"birthdate" example:"1947-06-22"`
}

type bookRequest struct {
	Title         string `json:"title" example:"Kindred"`
	Description   string `json:"description,omitempty"`
	PublishedDate string `json:"published_date" example:"1979-06-01"`
	AuthorID      int64  `json:"author_id" example:"1"`
}

type loginResponse struct {
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
}

type userEnvelope struct {
	StatusCode int          `json:"statusCode" example:"200"`
	Data       *domain.User `json:"data"`
	Message    string       `json:"message"`
	Success    bool         `json:"success" example:"true"`
}

type loginEnvelope struct {
	StatusCode int           `json:"statusCode" example:"200"`
	Data       loginResponse `json:"data"`
	Message    string        `json:"message"`
	Success    bool          `json:"success" example:"true"`
}

type authorEnvelope struct {
	StatusCode int            `json:"statusCode" example:"200"`
	Data       *domain.Author `json:"data"`
	Message    string         `json:"message"`
	Success    bool           `json:"success" example:"true"`
}

type bookEnvelope struct {
	StatusCode int          `json:"statusCode" example:"200"`
	Data       *domain.Book `json:"data"`
	Message    string       `json:"message"`
	Success    bool         `json:"success" example:"true"`
}

type errorEnvelope struct {
	StatusCode int                    `json:"statusCode" example:"400"`
	Message    string                 `json:"message"`
	Success    bool                   `json:"success" example:"false"`
	Errors     []validation.Violation `json:"errors,omitempty"`
}
