package domain

import (
	"time"

	"github.com/google/uuid"
)

// LoanStatus is the loan state machine: borrowed → returned, terminal.
type LoanStatus string

const (
	LoanStatusBorrowed LoanStatus = "borrowed"
	LoanStatusReturned LoanStatus = "returned"
)

// Valid reports whether the value is a known status.
func (s LoanStatus) Valid() bool {
	return s == LoanStatusBorrowed || s == LoanStatusReturned
}

// Loan records one copy of a book being held by a borrower.
// ReturnedAt is set exactly when Status is returned. ProcessedBy is the
// actor that performed the checkout, kept for audit even on self-service
// checkouts. Book display fields are denormalized from the joined book row
// for materialized reads.
type Loan struct {
	ID         uuid.UUID
	BookID     uuid.UUID
	Borrower   Borrower
	Status     LoanStatus
	BorrowedAt time.Time
	ReturnedAt *time.Time
	ProcessedBy string

	BookTitle         string
	BookAuthor        string
	BookCoverImageURL *string
}

// Active reports whether the loan is still held.
func (l Loan) Active() bool { return l.Status == LoanStatusBorrowed }
