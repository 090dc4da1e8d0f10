package api

import (
	"github.com/labstack/echo/v4"

	"github.com/bookhive/library-api/internal/api/handler"
	"github.com/bookhive/library-api/internal/api/middleware"
	"github.com/bookhive/library-api/internal/api/validation"
	"github.com/bookhive/library-api/internal/core/ports"
)

// Dependencies are the use cases the HTTP API is built on.
type Dependencies struct {
	Auth         ports.AuthService
	Tokens       ports.TokenService
	Authors      ports.AuthorService
	Books        ports.BookService
	SecureCookie bool
}

// NewRouter registers the /api/v1 routes on e. Protected routes authenticate
// before validating, so an anonymous caller never sees validation output.
func NewRouter(e *echo.Echo, deps Dependencies) {
	ev := validation.NewEvaluator()
	auth := middleware.Auth(deps.Tokens, deps.Auth)

	public := func(rules []validation.Rule) echo.MiddlewareFunc {
		return middleware.Pipeline(ev.Stage(rules))
	}
	protected := func(rules []validation.Rule) echo.MiddlewareFunc {
		return middleware.Pipeline(auth, ev.Stage(rules))
	}

	authHandler := handler.NewAuthHandler(deps.Auth, deps.SecureCookie)
	authorHandler := handler.NewAuthorHandler(deps.Authors)
	bookHandler := handler.NewBookHandler(deps.Books)

	v1 := e.Group("/api/v1")

	// --- Accounts ---
	v1.POST("/register", authHandler.Register, public(validation.Register))
	v1.POST("/login", authHandler.Login, public(validation.Login))
	v1.GET("/logout", authHandler.Logout, middleware.Pipeline(middleware.Optional(auth)))
	v1.GET("/me", authHandler.Me, middleware.Pipeline(auth))

	// --- Authors ---
	v1.GET("/authors", authorHandler.List, public(validation.ListQuery))
	v1.GET("/authors/with-books", authorHandler.ListWithBooks)
	v1.GET("/authors/:id", authorHandler.Get, public(validation.ByID))
	v1.GET("/authors/:id/details", authorHandler.Details, public(validation.ByID))
	v1.POST("/authors", authorHandler.Create, protected(validation.CreateAuthor))
	v1.PUT("/authors/:id", authorHandler.Update, protected(validation.UpdateAuthor))
	v1.DELETE("/authors/:id", authorHandler.Delete, protected(validation.ByID))

	// --- Books ---
	v1.GET("/books", bookHandler.List, public(validation.ListBooksQuery))
	v1.GET("/search/books", bookHandler.Search, public(validation.SearchQuery))
	v1.GET("/books/:id", bookHandler.Get, public(validation.ByID))
	v1.GET("/books/:id/details", bookHandler.Details, public(validation.ByID))
	v1.POST("/books", bookHandler.Create, protected(validation.CreateBook))
	v1.PUT("/books/:id", bookHandler.Update, protected(validation.UpdateBook))
	v1.DELETE("/books/:id", bookHandler.Delete, protected(validation.ByID))
}
