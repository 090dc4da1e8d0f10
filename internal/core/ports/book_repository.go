package ports

import (
	"context"

	"github.com/bookhive/library-api/internal/core/domain"
)

// BookFilter narrows book listings. Zero AuthorID means no author filter.
type BookFilter struct {
	AuthorID int64
	Offset   int
	Limit    int
}

// BookRepository defines persistence operations for books.
type BookRepository interface {
	List(ctx context.Context, filter BookFilter) ([]domain.Book, error)
	// Count applies the same author filter as List, ignoring offset and limit.
	Count(ctx context.Context, filter BookFilter) (int64, error)
	// ListByAuthors returns every book whose author_id is in ids.
	ListByAuthors(ctx context.Context, ids []int64) ([]domain.Book, error)
	// FindByID returns domain.ErrBookNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*domain.Book, error)
	// Search matches authors.name and/or books.title with a case-insensitive
	// substring filter; empty values are ignored.
	Search(ctx context.Context, author, title string) ([]domain.BookSearchHit, error)
	// Create reports a dangling author_id as domain.ErrInvalidAuthorID.
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
