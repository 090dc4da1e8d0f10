package domain

import "errors"

// Account errors.
var (
	ErrUserExists         = errors.New("user with email or username already exists")
	ErrMissingFields      = errors.New("all fields are required")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid user credentials")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
	ErrUnauthorized       = errors.New("unauthorized request")
	ErrForbidden          = errors.New("access forbidden")
)

// Token verification errors. They stay distinct internally but are all
// reported to clients as ErrUnauthorized.
var (
	ErrTokenMalformed        = errors.New("token malformed")
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired          = errors.New("token expired")
)

// Catalog errors.
var (
	ErrAuthorNotFound  = errors.New("author not found")
	ErrInvalidAuthorID = errors.New("invalid author id")
	ErrAuthorHasBooks  = errors.New("author still has books")
	ErrBookNotFound    = errors.New("book not found")
	ErrNoSearchResults = errors.New("no books found matching the search criteria")
	ErrSearchCriteria  = errors.New("you must provide either an author name or a book title for search")
)
