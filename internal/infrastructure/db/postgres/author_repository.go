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

var authorColumns = []string{"id", "name", "bio", "birthdate"}

// AuthorRepository implements ports.AuthorRepository on the authors table.
type AuthorRepository struct {
	db *sql.DB
}

func NewAuthorRepository(db *sql.DB) ports.AuthorRepository {
	return &AuthorRepository{db: db}
}

func (r *AuthorRepository) List(ctx context.Context, offset, limit int) ([]domain.Author, error) {
	return r.query(ctx, psql.Select(authorColumns...).From("authors").
		OrderBy("id").Limit(uint64(limit)).Offset(uint64(offset)))
}

func (r *AuthorRepository) ListAll(ctx context.Context) ([]domain.Author, error) {
	return r.query(ctx, psql.Select(authorColumns...).From("authors").OrderBy("id"))
}

func (r *AuthorRepository) Count(ctx context.Context) (int64, error) {
	query, args, err := psql.Select("COUNT(*)").From("authors").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count authors: %w", err)
	}
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count authors: %w", err)
	}
	return n, nil
}

func (r *AuthorRepository) FindByID(ctx context.Context, id int64) (*domain.Author, error) {
	query, args, err := psql.Select(authorColumns...).From("authors").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find author: %w", err)
	}

	a, err := scanAuthor(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrAuthorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find author: %w", err)
	}
	return &a, nil
}

func (r *AuthorRepository) Create(ctx context.Context, author *domain.Author) (*domain.Author, error) {
	query, args, err := psql.Insert("authors").
		Columns("name", "bio", "birthdate").
		Values(author.Name, nullString(author.Bio), author.Birthdate.Time).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert author: %w", err)
	}

	created := *author
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&created.ID); err != nil {
		return nil, fmt.Errorf("insert author: %w", err)
	}
	return &created, nil
}

func (r *AuthorRepository) Update(ctx context.Context, author *domain.Author) (int64, error) {
	query, args, err := psql.Update("authors").
		Set("name", author.Name).
		Set("bio", nullString(author.Bio)).
		Set("birthdate", author.Birthdate.Time).
		Where(sq.Eq{"id": author.ID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update author: %w", err)
	}
	return r.exec(ctx, "update author", query, args)
}

// Delete removes the author. Books still referencing it surface as
// domain.ErrAuthorHasBooks through the foreign key.
func (r *AuthorRepository) Delete(ctx context.Context, id int64) (int64, error) {
	query, args, err := psql.Delete("authors").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete author: %w", err)
	}
	n, err := r.exec(ctx, "delete author", query, args)
	if pgCode(err) == pgerrcode.ForeignKeyViolation {
		return 0, domain.ErrAuthorHasBooks
	}
	return n, err
}

func (r *AuthorRepository) exec(ctx context.Context, op, query string, args []any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func (r *AuthorRepository) query(ctx context.Context, b sq.SelectBuilder) ([]domain.Author, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list authors: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	defer rows.Close()

	authors := []domain.Author{}
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	return authors, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuthor(row rowScanner) (domain.Author, error) {
	var (
		a         domain.Author
		bio       sql.NullString
		birthdate sql.NullTime
	)
	if err := row.Scan(&a.ID, &a.Name, &bio, &birthdate); err != nil {
		return domain.Author{}, err
	}
	a.Bio = bio.String
	if birthdate.Valid {
		a.Birthdate = domain.NewDate(birthdate.Time)
	}
	return a, nil
}
