// Package loan implements the loan repository using PostgreSQL.
//
// Lock ordering: a transaction locks its own loan row (GetForUpdate)
// before the associated book row, and checkout locks only the book. No
// method here locks another entity's loan, so a checkout and a return can
// never each hold a lock the other is waiting on.
package loan

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

// ActiveUniqueIndex is the partial unique index enforcing one active loan
// per registered borrower per book. Its violation is the storage-level form
// of the AlreadyBorrowed conflict.
const ActiveUniqueIndex = "ix_loans_active_user_unique"

// Repo provides loan persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new loan repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const loanJoinedColumns = `l.id, l.book_id, l.borrower_user_id, l.borrower_name, l.status,
       l.borrowed_at, l.returned_at, l.processed_by,
       b.title, b.author, b.cover_image_url`

const getByIDSQL = `
SELECT ` + loanJoinedColumns + `
FROM loans l
JOIN books b ON l.book_id = b.id
WHERE l.id = $1`

// getForUpdateSQL locks only the loan row. The book columns are left out on
// purpose: a join here would take the book lock too, out of order.
const getForUpdateSQL = `
SELECT id, book_id, borrower_user_id, borrower_name, status,
       borrowed_at, returned_at, processed_by
FROM loans
WHERE id = $1
FOR UPDATE`

const insertSQL = `
INSERT INTO loans (id, book_id, borrower_user_id, borrower_name, status,
                   borrowed_at, processed_by)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const findActiveSQL = `
SELECT EXISTS(
    SELECT 1 FROM loans
    WHERE borrower_user_id = $1 AND book_id = $2 AND status = 'borrowed'
)`

// markReturnedSQL guards on status so the transition fires at most once.
const markReturnedSQL = `
UPDATE loans
SET status = 'returned', returned_at = $2
WHERE id = $1 AND status = 'borrowed'`

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a loan with its denormalized book display fields.
func (r *Repo) GetByID(ctx context.Context, loanID uuid.UUID) (domain.Loan, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	l, err := scanJoinedLoan(querier.QueryRow(ctx, getByIDSQL, loanID))
	if err != nil {
		return domain.Loan{}, postgres.MapError(err, "loan", loanID)
	}
	return l, nil
}

// GetForUpdate returns a loan with an exclusive row lock held for the rest
// of the caller's transaction. Book display fields are not populated.
func (r *Repo) GetForUpdate(ctx context.Context, loanID uuid.UUID) (domain.Loan, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	l, err := scanBareLoan(querier.QueryRow(ctx, getForUpdateSQL, loanID))
	if err != nil {
		return domain.Loan{}, postgres.MapError(err, "loan", loanID)
	}
	return l, nil
}

// HasActiveLoan reports whether the registered borrower currently holds the
// book. This is a plain read with no lock; the partial unique index is what
// actually enforces the invariant under concurrency.
func (r *Repo) HasActiveLoan(ctx context.Context, borrowerUserID string, bookID uuid.UUID) (bool, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var exists bool
	if err := querier.QueryRow(ctx, findActiveSQL, borrowerUserID, bookID).Scan(&exists); err != nil {
		return false, fmt.Errorf("find active loan: %w", err)
	}
	return exists, nil
}

// List returns a filtered page of loans ordered by borrowed_at DESC,
// id DESC, with keyset pagination. Fetches limit+1 rows to probe for a
// next page; a malformed cursor means the start of the sequence.
func (r *Repo) List(ctx context.Context, f domain.LoanFilter) ([]domain.Loan, bool, error) {
	qb := psql.Select("l.id", "l.book_id", "l.borrower_user_id", "l.borrower_name", "l.status",
		"l.borrowed_at", "l.returned_at", "l.processed_by",
		"b.title", "b.author", "b.cover_image_url").
		From("loans l").
		Join("books b ON l.book_id = b.id")

	if f.BorrowerUserID != nil {
		qb = qb.Where(sq.Eq{"l.borrower_user_id": *f.BorrowerUserID})
	}
	if f.BookID != nil {
		qb = qb.Where(sq.Eq{"l.book_id": *f.BookID})
	}
	if f.Status != nil {
		qb = qb.Where(sq.Eq{"l.status": string(*f.Status)})
	}

	if f.Cursor != nil {
		if c, ok := cursor.DecodeTimeID(*f.Cursor); ok {
			qb = qb.Where(sq.Or{
				sq.Lt{"l.borrowed_at": c.TS},
				sq.And{sq.Eq{"l.borrowed_at": c.TS}, sq.Lt{"l.id": c.ID}},
			})
		}
	}

	qb = qb.OrderBy("l.borrowed_at DESC", "l.id DESC").Limit(uint64(f.Limit + 1))

	sqlStr, args, err := qb.ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build loan list query: %w", err)
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := querier.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, false, fmt.Errorf("list loans: %w", err)
	}
	defer rows.Close()

	loans, err := scanJoinedLoans(rows)
	if err != nil {
		return nil, false, fmt.Errorf("list loans: %w", err)
	}

	if len(loans) > f.Limit {
		return loans[:f.Limit], true, nil
	}
	return loans, false, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new borrowed loan and returns its id. A violation of
// the active-loan unique index — the losing side of a same-borrower
// checkout race — is re-signalled as domain.ErrAlreadyBorrowed.
func (r *Repo) Create(ctx context.Context, bookID uuid.UUID, borrower domain.Borrower, processedBy string, borrowedAt time.Time) (uuid.UUID, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	id := uuid.New()
	userID, name := borrower.Columns()

	_, err := querier.Exec(ctx, insertSQL,
		id, bookID, userID, name, string(domain.LoanStatusBorrowed), borrowedAt, processedBy)
	if err != nil {
		if postgres.ConstraintViolated(err, postgres.CodeUniqueViolation, ActiveUniqueIndex) {
			return uuid.Nil, fmt.Errorf("loan for book %s: %w", bookID, domain.ErrAlreadyBorrowed)
		}
		return uuid.Nil, postgres.MapError(err, "loan", id)
	}
	return id, nil
}

// MarkReturned moves a loan to its terminal state. The caller must hold
// the row lock from GetForUpdate and have checked the status already; a
// zero-row update here means the state machine was violated.
func (r *Repo) MarkReturned(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, markReturnedSQL, loanID, returnedAt)
	if err != nil {
		return postgres.MapError(err, "loan", loanID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("loan %s: %w", loanID, domain.ErrLoanAlreadyReturned)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Row scanning helpers
// ---------------------------------------------------------------------------

func scanJoinedLoan(row pgx.Row) (domain.Loan, error) {
	var (
		l              domain.Loan
		borrowerUserID *string
		borrowerName   *string
		status         string
	)
	err := row.Scan(&l.ID, &l.BookID, &borrowerUserID, &borrowerName, &status,
		&l.BorrowedAt, &l.ReturnedAt, &l.ProcessedBy,
		&l.BookTitle, &l.BookAuthor, &l.BookCoverImageURL)
	if err != nil {
		return domain.Loan{}, err
	}
	return assembleLoan(l, borrowerUserID, borrowerName, status)
}

func scanBareLoan(row pgx.Row) (domain.Loan, error) {
	var (
		l              domain.Loan
		borrowerUserID *string
		borrowerName   *string
		status         string
	)
	err := row.Scan(&l.ID, &l.BookID, &borrowerUserID, &borrowerName, &status,
		&l.BorrowedAt, &l.ReturnedAt, &l.ProcessedBy)
	if err != nil {
		return domain.Loan{}, err
	}
	return assembleLoan(l, borrowerUserID, borrowerName, status)
}

func assembleLoan(l domain.Loan, borrowerUserID, borrowerName *string, status string) (domain.Loan, error) {
	borrower, err := domain.BorrowerFromRow(borrowerUserID, borrowerName)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("loan %s: %w", l.ID, err)
	}
	l.Borrower = borrower
	l.Status = domain.LoanStatus(status)
	return l, nil
}

func scanJoinedLoans(rows pgx.Rows) ([]domain.Loan, error) {
	var loans []domain.Loan
	for rows.Next() {
		l, err := scanJoinedLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if loans == nil {
		loans = []domain.Loan{}
	}
	return loans, nil
}
