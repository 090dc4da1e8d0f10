package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/internal/core/ports"
)

type BookService struct {
	books   ports.BookRepository
	authors ports.AuthorRepository
	logger  zerolog.Logger
}

func NewBookService(books ports.BookRepository, authors ports.AuthorRepository, logger zerolog.Logger) *BookService {
	return &BookService{books: books, authors: authors, logger: logger}
}

func (s *BookService) List(ctx context.Context, in ports.ListBooksInput) (*domain.Page[domain.Book], error) {
	filter := ports.BookFilter{AuthorID: in.AuthorID, Offset: in.Offset(), Limit: in.Limit}
	items, err := s.books.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.books.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Book{}
	}
	return &domain.Page[domain.Book]{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// Search requires at least one of author or title.
func (s *BookService) Search(ctx context.Context, author, title string) ([]domain.BookSearchHit, error) {
	author = strings.TrimSpace(author)
	title = strings.TrimSpace(title)
	if author == "" && title == "" {
		return nil, domain.ErrSearchCriteria
	}

	hits, err := s.books.Search(ctx, author, title)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, domain.ErrNoSearchResults
	}
	return hits, nil
}

func (s *BookService) Get(ctx context.Context, id int64) (*domain.Book, error) {
	return s.books.FindByID(ctx, id)
}

func (s *BookService) GetWithAuthor(ctx context.Context, id int64) (*ports.BookDetail, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	author, err := s.authors.FindByID(ctx, book.AuthorID)
	if err != nil && !errors.Is(err, domain.ErrAuthorNotFound) {
		return nil, err
	}
	return &ports.BookDetail{Book: book, Author: author}, nil
}

func (s *BookService) Create(ctx context.Context, in ports.CreateBookInput) (*domain.Book, error) {
	if err := s.ensureAuthor(ctx, in.AuthorID); err != nil {
		return nil, err
	}

	created, err := s.books.Create(ctx, &domain.Book{
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		PublishedDate: in.PublishedDate,
		AuthorID:      in.AuthorID,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("book_id", created.ID).Int64("author_id", created.AuthorID).Msg("book created")
	return created, nil
}

// Update applies the present fields of in over the stored book. A changed
// author reference must resolve before anything is written.
func (s *BookService) Update(ctx context.Context, id int64, in ports.UpdateBookInput) (*domain.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.AuthorID != nil && *in.AuthorID != book.AuthorID {
		if err := s.ensureAuthor(ctx, *in.AuthorID); err != nil {
			return nil, err
		}
		book.AuthorID = *in.AuthorID
	}
	if in.Title != nil {
		book.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		book.Description = strings.TrimSpace(*in.Description)
	}
	if in.PublishedDate != nil {
		book.PublishedDate = *in.PublishedDate
	}

	affected, err := s.books.Update(ctx, book)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrBookNotFound
	}
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, id int64) error {
	affected, err := s.books.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

func (s *BookService) ensureAuthor(ctx context.Context, authorID int64) error {
	if authorID <= 0 {
		return domain.ErrInvalidAuthorID
	}
	_, err := s.authors.FindByID(ctx, authorID)
	if errors.Is(err, domain.ErrAuthorNotFound) {
		return domain.ErrInvalidAuthorID
	}
	return err
}
