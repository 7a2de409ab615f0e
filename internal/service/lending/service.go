// Package lending implements the loan lifecycle: checkout, return and loan
// listing. Every state change runs in a single transaction via the TxManager.
//
// Lock ordering. Checkout locks only the book row. Return locks its own loan
// row first, then the book row. A transaction never locks another entity's
// loan, so the loan→book order cannot form a cycle with checkout's book-only
// order, and row locks cannot deadlock across the two operations.
package lending

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/libris-backend/internal/config"
	"github.com/heartmarshall/libris-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type bookRepo interface {
	GetForUpdate(ctx context.Context, bookID uuid.UUID) (domain.Book, error)
	AdjustCopies(ctx context.Context, bookID uuid.UUID, delta int) error
}

type loanRepo interface {
	GetByID(ctx context.Context, loanID uuid.UUID) (domain.Loan, error)
	GetForUpdate(ctx context.Context, loanID uuid.UUID) (domain.Loan, error)
	HasActiveLoan(ctx context.Context, borrowerUserID string, bookID uuid.UUID) (bool, error)
	List(ctx context.Context, filter domain.LoanFilter) ([]domain.Loan, bool, error)
	Create(ctx context.Context, bookID uuid.UUID, borrower domain.Borrower, processedBy string, borrowedAt time.Time) (uuid.UUID, error)
	MarkReturned(ctx context.Context, loanID uuid.UUID, returnedAt time.Time) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the lending business logic.
type Service struct {
	log   *slog.Logger
	books bookRepo
	loans loanRepo
	tx    txManager
	cfg   config.CatalogConfig
}

// NewService creates a new Lending service. The catalog config supplies the
// page size bounds shared by all listings.
func NewService(logger *slog.Logger, books bookRepo, loans loanRepo, tx txManager, cfg config.CatalogConfig) *Service {
	return &Service{
		log:   logger.With("service", "lending"),
		books: books,
		loans: loans,
		tx:    tx,
		cfg:   cfg,
	}
}

// clampLimit defaults a non-positive limit and caps it at max.
func clampLimit(limit, defaultVal, max int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit > max {
		return max
	}
	return limit
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
