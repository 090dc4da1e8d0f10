package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/internal/core/ports"
)

type AuthorService struct {
	authors ports.AuthorRepository
	books   ports.BookRepository
	logger  zerolog.Logger
}

func NewAuthorService(authors ports.AuthorRepository, books ports.BookRepository, logger zerolog.Logger) *AuthorService {
	return &AuthorService{authors: authors, books: books, logger: logger}
}

func (s *AuthorService) List(ctx context.Context, in ports.PageInput) (*domain.Page[domain.Author], error) {
	items, err := s.authors.List(ctx, in.Offset(), in.Limit)
	if err != nil {
		return nil, err
	}
	total, err := s.authors.Count(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Author{}
	}
	return &domain.Page[domain.Author]{Items: items, Total: total, Page: in.Page, Limit: in.Limit}, nil
}

// ListWithBooks returns every author with its books, loading books in a
// single query rather than one per author.
func (s *AuthorService) ListWithBooks(ctx context.Context) ([]domain.AuthorWithBooks, error) {
	authors, err := s.authors.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(authors) == 0 {
		return []domain.AuthorWithBooks{}, nil
	}

	ids := make([]int64, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	books, err := s.books.ListByAuthors(ctx, ids)
	if err != nil {
		return nil, err
	}

	byAuthor := make(map[int64][]domain.Book, len(authors))
	for _, b := range books {
		byAuthor[b.AuthorID] = append(byAuthor[b.AuthorID], b)
	}

	out := make([]domain.AuthorWithBooks, len(authors))
	for i, a := range authors {
		owned := byAuthor[a.ID]
		if owned == nil {
			owned = []domain.Book{}
		}
		out[i] = domain.AuthorWithBooks{Author: a, Books: owned}
	}
	return out, nil
}

func (s *AuthorService) Get(ctx context.Context, id int64) (*domain.Author, error) {
	return s.authors.FindByID(ctx, id)
}

func (s *AuthorService) GetWithBooks(ctx context.Context, id int64) (*ports.AuthorDetail, error) {
	author, err := s.authors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	books, err := s.books.ListByAuthors(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []domain.Book{}
	}
	return &ports.AuthorDetail{Author: author, Books: books}, nil
}

func (s *AuthorService) Create(ctx context.Context, in ports.CreateAuthorInput) (*domain.Author, error) {
	author := &domain.Author{
		Name:      strings.TrimSpace(in.Name),
		Bio:       strings.TrimSpace(in.Bio),
		Birthdate: in.Birthdate,
	}
	created, err := s.authors.Create(ctx, author)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int64("author_id", created.ID).Msg("author created")
	return created, nil
}

// Update applies the present fields of in over the stored author.
func (s *AuthorService) Update(ctx context.Context, id int64, in ports.UpdateAuthorInput) (*domain.Author, error) {
	author, err := s.authors.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		author.Name = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		author.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.Birthdate != nil {
		author.Birthdate = *in.Birthdate
	}

	affected, err := s.authors.Update(ctx, author)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrAuthorNotFound
	}
	return author, nil
}

// Delete refuses to remove an author that still has books.
func (s *AuthorService) Delete(ctx context.Context, id int64) error {
	owned, err := s.books.Count(ctx, ports.BookFilter{AuthorID: id})
	if err != nil {
		return err
	}
	if owned > 0 {
		return domain.ErrAuthorHasBooks
	}

	affected, err := s.authors.Delete(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrAuthorNotFound
	}
	s.logger.Info().Int64("author_id", id).Msg("author deleted")
	return nil
}
