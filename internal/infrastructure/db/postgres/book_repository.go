package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"

	"github.com/bookhive/library-api/internal/core/domain"
	"github.com/bookhive/library-api/internal/core/ports"
)

var bookColumns = []string{"id", "title", "description", "published_date", "author_id"}

// BookRepository implements ports.BookRepository on the books table.
type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) ports.BookRepository {
	return &BookRepository{db: db}
}

func applyBookFilter(b sq.SelectBuilder, filter ports.BookFilter) sq.SelectBuilder {
	if filter.AuthorID != 0 {
		b = b.Where(sq.Eq{"author_id": filter.AuthorID})
	}
	return b
}

func (r *BookRepository) List(ctx context.Context, filter ports.BookFilter) ([]domain.Book, error) {
	b := applyBookFilter(psql.Select(bookColumns...).From("books"), filter).OrderBy("id")
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	return r.query(ctx, b)
}

func (r *BookRepository) Count(ctx context.Context, filter ports.BookFilter) (int64, error) {
	query, args, err := applyBookFilter(psql.Select("COUNT(*)").From("books"), filter).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count books: %w", err)
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

func (r *BookRepository) ListByAuthors(ctx context.Context, ids []int64) ([]domain.Book, error) {
	if len(ids) == 0 {
		return []domain.Book{}, nil
	}
	return r.query(ctx, psql.Select(bookColumns...).From("books").
		Where(sq.Eq{"author_id": ids}).OrderBy("author_id", "id"))
}

func (r *BookRepository) FindByID(ctx context.Context, id int64) (*domain.Book, error) {
	query, args, err := psql.Select(bookColumns...).From("books").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find book: %w", err)
	}

	b, err := scanBook(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find book: %w", err)
	}
	return &b, nil
}

func (r *BookRepository) Search(ctx context.Context, author, title string) ([]domain.BookSearchHit, error) {
	b := psql.Select("b.id", "b.title", "b.description", "b.published_date", "a.name").
		From("books b").
		Join("authors a ON a.id = b.author_id").
		OrderBy("b.id")
	if author != "" {
		b = b.Where(sq.ILike{"a.name": containsPattern(author)})
	}
	if title != "" {
		b = b.Where(sq.ILike{"b.title": containsPattern(title)})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search books: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer rows.Close()

	hits := []domain.BookSearchHit{}
	for rows.Next() {
		var (
			h         domain.BookSearchHit
			desc      sql.NullString
			published sql.NullTime
		)
		if err := rows.Scan(&h.ID, &h.Title, &desc, &published, &h.AuthorName); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		h.Description = desc.String
		if published.Valid {
			h.PublishedDate = domain.NewDate(published.Time)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	return hits, nil
}

// Create inserts book. The foreign key is the final check on author_id and a
// violation becomes domain.ErrInvalidAuthorID.
func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	query, args, err := psql.Insert("books").
		Columns("title", "description", "published_date", "author_id").
		Values(book.Title, nullString(book.Description), book.PublishedDate.Time, book.AuthorID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert book: %w", err)
	}

	created := *book
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&created.ID); err != nil {
		if pgCode(err) == pgerrcode.ForeignKeyViolation {
			return nil, domain.ErrInvalidAuthorID
		}
		return nil, fmt.Errorf("insert book: %w", err)
	}
	return &created, nil
}

func (r *BookRepository) Update(ctx context.Context, book *domain.Book) (int64, error) {
	query, args, err := psql.Update("books").
		Set("title", book.Title).
		Set("description", nullString(book.Description)).
		Set("published_date", book.PublishedDate.Time).
		Set("author_id", book.AuthorID).
		Where(sq.Eq{"id": book.ID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update book: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if pgCode(err) == pgerrcode.ForeignKeyViolation {
			return 0, domain.ErrInvalidAuthorID
		}
		return 0, fmt.Errorf("update book: %w", err)
	}
	return res.RowsAffected()
}

func (r *BookRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query, args, err := psql.Delete("books").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete book: %w", err)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}
	return res.RowsAffected()
}

func (r *BookRepository) query(ctx context.Context, b sq.SelectBuilder) ([]domain.Book, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list books: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func scanBook(row rowScanner) (domain.Book, error) {
	var (
		b         domain.Book
		desc      sql.NullString
		published sql.NullTime
	)
	if err := row.Scan(&b.ID, &b.Title, &desc, &published, &b.AuthorID); err != nil {
		return domain.Book{}, err
	}
	b.Description = desc.String
	if published.Valid {
		b.PublishedDate = domain.NewDate(published.Time)
	}
	return b, nil
}
