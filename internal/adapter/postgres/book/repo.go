// Package book implements the book repository using PostgreSQL.
// Point reads and writes use raw SQL; the filtered listing is built with
// squirrel because filters, sort order, and the keyset boundary combine
// dynamically.
package book

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/libris-backend/internal/adapter/postgres"
	"github.com/heartmarshall/libris-backend/internal/domain"
	"github.com/heartmarshall/libris-backend/pkg/cursor"
)

// Repo provides book persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new book repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const bookColumns = `id, title, author, description, isbn, published_year,
       available_copies, cover_image_url, created_at, updated_at`

const getByIDSQL = `
SELECT ` + bookColumns + `
FROM books
WHERE id = $1`

// getForUpdateSQL takes the row lock that serializes concurrent checkouts
// and returns against the same book.
const getForUpdateSQL = getByIDSQL + `
FOR UPDATE`

const insertSQL = `
INSERT INTO books (id, title, author, description, isbn, published_year,
                   available_copies, cover_image_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
RETURNING ` + bookColumns

// adjustCopiesSQL bounds the update so available_copies can never go
// negative regardless of the caller's own availability check.
const adjustCopiesSQL = `
UPDATE books
SET available_copies = available_copies + $2,
    updated_at = now()
WHERE id = $1 AND available_copies + $2 >= 0`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a book by primary key.
func (r *Repo) GetByID(ctx context.Context, bookID uuid.UUID) (domain.Book, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	b, err := scanBook(querier.QueryRow(ctx, getByIDSQL, bookID))
	if err != nil {
		return domain.Book{}, postgres.MapError(err, "book", bookID)
	}
	return b, nil
}

// GetForUpdate returns a book with an exclusive row lock held for the rest
// of the caller's transaction. It must be called before any read of
// available_copies that will inform a mutation. Callers outside a
// transaction get no lasting lock, so this is only meaningful inside
// TxManager.RunInTx.
func (r *Repo) GetForUpdate(ctx context.Context, bookID uuid.UUID) (domain.Book, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	b, err := scanBook(querier.QueryRow(ctx, getForUpdateSQL, bookID))
	if err != nil {
		return domain.Book{}, postgres.MapError(err, "book", bookID)
	}
	return b, nil
}

// List returns a filtered, sorted page of books using keyset pagination.
// It fetches limit+1 rows; the returned flag is true when the extra row
// came back, and the page is truncated to the limit. A malformed cursor is
// treated as the start of the sequence.
func (r *Repo) List(ctx context.Context, f domain.BookFilter) ([]domain.Book, bool, error) {
	qb := psql.Select("id", "title", "author", "description", "isbn", "published_year",
		"available_copies", "cover_image_url", "created_at", "updated_at").
		From("books")

	if f.Query != nil && *f.Query != "" {
		pattern := "%" + *f.Query + "%"
		qb = qb.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"author": pattern},
		})
	}
	if f.Author != nil && *f.Author != "" {
		qb = qb.Where(sq.ILike{"author": "%" + *f.Author + "%"})
	}
	if f.AvailableOnly {
		qb = qb.Where(sq.Gt{"available_copies": 0})
	}

	qb = applySortAndBoundary(qb, f)
	qb = qb.Limit(uint64(f.Limit + 1))

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build book list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, false, fmt.Errorf("list books: %w", err)
	}

	if len(books) > f.Limit {
		return books[:f.Limit], true, nil
	}
	return books, false, nil
}

// applySortAndBoundary adds the ORDER BY clause and, when a decodable
// cursor is present, the keyset boundary predicate matching it.
func applySortAndBoundary(qb sq.SelectBuilder, f domain.BookFilter) sq.SelectBuilder {
	raw := ""
	if f.Cursor != nil {
		raw = *f.Cursor
	}

	switch f.Sort {
	case domain.BookSortCreatedAsc:
		if c, ok := cursor.DecodeTimeID(raw); ok {
			qb = qb.Where(sq.Or{
				sq.Gt{"created_at": c.TS},
				sq.And{sq.Eq{"created_at": c.TS}, sq.Gt{"id": c.ID}},
			})
		}
		return qb.OrderBy("created_at ASC", "id ASC")

	case domain.BookSortTitleAsc:
		if c, ok := cursor.DecodeTitleID(raw); ok {
			qb = qb.Where(sq.Or{
				sq.Expr("lower(title) > ?", c.Title),
				sq.And{sq.Expr("lower(title) = ?", c.Title), sq.Gt{"id": c.ID}},
			})
		}
		return qb.OrderBy("lower(title) ASC", "id ASC")

	default: // domain.BookSortCreatedDesc
		if c, ok := cursor.DecodeTimeID(raw); ok {
			qb = qb.Where(sq.Or{
				sq.Lt{"created_at": c.TS},
				sq.And{sq.Eq{"created_at": c.TS}, sq.Lt{"id": c.ID}},
			})
		}
		return qb.OrderBy("created_at DESC", "id DESC")
	}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new book and returns the persisted row.
func (r *Repo) Create(ctx context.Context, b domain.Book) (domain.Book, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)

	created, err := scanBook(querier.QueryRow(ctx, insertSQL,
		id, b.Title, b.Author, b.Description, b.ISBN, b.PublishedYear,
		b.AvailableCopies, b.CoverImageURL, now,
	))
	if err != nil {
		return domain.Book{}, postgres.MapError(err, "book", id)
	}
	return created, nil
}

// AdjustCopies applies delta to available_copies. The caller must hold the
// row lock from GetForUpdate. A delta that would drive the count negative
// leaves the row untouched and returns domain.ErrBookUnavailable.
func (r *Repo) AdjustCopies(ctx context.Context, bookID uuid.UUID, delta int) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, adjustCopiesSQL, bookID, delta)
	if err != nil {
		return postgres.MapError(err, "book", bookID)
	}
	if tag.RowsAffected() == 0 {
		// Either the book vanished or the guard refused the decrement.
		var exists bool
		if err := querier.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM books WHERE id = $1)`, bookID,
		).Scan(&exists); err != nil {
			return postgres.MapError(err, "book", bookID)
		}
		if !exists {
			return fmt.Errorf("book %s: %w", bookID, domain.ErrNotFound)
		}
		return fmt.Errorf("book %s: %w", bookID, domain.ErrBookUnavailable)
	}
	return nil
}

// Delete removes a book. A book referenced by any loan, active or returned,
// cannot be deleted; the FK restriction is surfaced as
// domain.ErrBookHasLoans.
func (r *Repo) Delete(ctx context.Context, bookID uuid.UUID) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, `DELETE FROM books WHERE id = $1`, bookID)
	if err != nil {
		if postgres.ConstraintViolated(err, postgres.CodeForeignKeyViolation, "fk_loans_book_id") {
			return fmt.Errorf("book %s: %w", bookID, domain.ErrBookHasLoans)
		}
		return postgres.MapError(err, "book", bookID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("book %s: %w", bookID, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanBook(row pgx.Row) (domain.Book, error) {
	var b domain.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.ISBN,
		&b.PublishedYear, &b.AvailableCopies, &b.CoverImageURL,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.Book{}, err
	}
	return b, nil
}

func scanBooks(rows pgx.Rows) ([]domain.Book, error) {
	var books []domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}
