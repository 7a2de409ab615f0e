package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookSpec describes a book row to insert directly, bypassing the repository.
type BookSpec struct {
	Title           string
	Author          string
	AvailableCopies int
	CreatedAt       time.Time
}

// SeedBook inserts a book row and returns its id.
func SeedBook(t *testing.T, pool *pgxpool.Pool, spec BookSpec) uuid.UUID {
	t.Helper()

	id := uuid.New()
	createdAt := spec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	_, err := pool.Exec(context.Background(), `
		INSERT INTO books (id, title, author, available_copies, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		id, spec.Title, spec.Author, spec.AvailableCopies, createdAt)
	if err != nil {
		t.Fatalf("seed book: %v", err)
	}
	return id
}

// LoanSpec describes a loan row to insert directly, bypassing the repository.
// Exactly one of BorrowerUserID and BorrowerName must be set. A non-nil
// ReturnedAt makes the loan returned.
type LoanSpec struct {
	BookID         uuid.UUID
	BorrowerUserID *string
	BorrowerName   *string
	BorrowedAt     time.Time
	ReturnedAt     *time.Time
	ProcessedBy    string
}

// SeedLoan inserts a loan row and returns its id.
func SeedLoan(t *testing.T, pool *pgxpool.Pool, spec LoanSpec) uuid.UUID {
	t.Helper()

	id := uuid.New()
	borrowedAt := spec.BorrowedAt
	if borrowedAt.IsZero() {
		borrowedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	processedBy := spec.ProcessedBy
	if processedBy == "" {
		processedBy = "seed"
	}
	status := "borrowed"
	if spec.ReturnedAt != nil {
		status = "returned"
	}

	_, err := pool.Exec(context.Background(), `
		INSERT INTO loans (id, book_id, borrower_user_id, borrower_name, status,
		                   borrowed_at, returned_at, processed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, spec.BookID, spec.BorrowerUserID, spec.BorrowerName, status,
		borrowedAt, spec.ReturnedAt, processedBy)
	if err != nil {
		t.Fatalf("seed loan: %v", err)
	}
	return id
}

// Ptr returns a pointer to v, for filling optional seed fields inline.
func Ptr[T any](v T) *T { return &v }
