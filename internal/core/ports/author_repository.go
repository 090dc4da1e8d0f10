package ports

import (
	"context"

	"github.com/bookhive/library-api/internal/core/domain"
)

// AuthorRepository defines persistence operations for authors.
type AuthorRepository interface {
	List(ctx context.Context, offset, limit int) ([]domain.Author, error)
	ListAll(ctx context.Context) ([]domain.Author, error)
	Count(ctx context.Context) (int64, error)
	// FindByID returns domain.ErrAuthorNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*domain.Author, error)
	Create(ctx context.Context, author *domain.Author) (*domain.Author, error)
	// Update writes every column of author and returns the affected row count.
	Update(ctx context.Context, author *domain.Author) (int64, error)
	// Delete returns the affected row count; zero means no such author.
	Delete(ctx context.Context, id int64) (int64, error)
}
