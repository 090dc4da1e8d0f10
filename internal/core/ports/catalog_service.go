package ports

import (
	"context"
	"math"

	"github.com/bookhive/library-api/internal/core/domain"
)

// PageInput is a 1-based offset/limit window.
type PageInput struct {
	Page  int
	Limit int
}

// Offset converts the window into a row offset. A page too far out to
// address saturates at math.MaxInt, which reads as an empty page.
func (p PageInput) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

type CreateAuthorInput struct {
	Name      string
	Bio       string
	Birthdate domain.Date
}

// UpdateAuthorInput is a partial update: nil fields keep their stored value.
type UpdateAuthorInput struct {
	Name      *string
	Bio       *string
	Birthdate *domain.Date
}

type CreateBookInput struct {
	Title         string
	Description   string
	PublishedDate domain.Date
	AuthorID      int64
}

// UpdateBookInput is a partial update: nil fields keep their stored value.
type UpdateBookInput struct {
	Title         *string
	Description   *string
	PublishedDate *domain.Date
	AuthorID      *int64
}

type ListBooksInput struct {
	PageInput
	AuthorID int64
}

// BookDetail is a book together with the author it references. Author is nil
// when the reference no longer resolves.
type BookDetail struct {
	Book   *domain.Book   `json:"book"`
	Author *domain.Author `json:"author"`
}

// AuthorDetail is an author together with its books.
type AuthorDetail struct {
	Author *domain.Author `json:"author"`
	Books  []domain.Book  `json:"books"`
}

// AuthorService defines use-case operations for authors.
type AuthorService interface {
	List(ctx context.Context, in PageInput) (*domain.Page[domain.Author], error)
	ListWithBooks(ctx context.Context) ([]domain.AuthorWithBooks, error)
	Get(ctx context.Context, id int64) (*domain.Author, error)
	GetWithBooks(ctx context.Context, id int64) (*AuthorDetail, error)
	Create(ctx context.Context, in CreateAuthorInput) (*domain.Author, error)
	Update(ctx context.Context, id int64, in UpdateAuthorInput) (*domain.Author, error)
	Delete(ctx context.Context, id int64) error
}

// BookService defines use-case operations for books.
type BookService interface {
	List(ctx context.Context, in ListBooksInput) (*domain.Page[domain.Book], error)
	Search(ctx context.Context, author, title string) ([]domain.BookSearchHit, error)
	Get(ctx context.Context, id int64) (*domain.Book, error)
	GetWithAuthor(ctx context.Context, id int64) (*BookDetail, error)
	Create(ctx context.Context, in CreateBookInput) (*domain.Book, error)
	Update(ctx context.Context, id int64, in UpdateBookInput) (*domain.Book, error)
	Delete(ctx context.Context, id int64) error
}
