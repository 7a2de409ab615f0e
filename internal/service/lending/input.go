package lending

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/libris-backend/internal/domain"
)

// CheckoutInput holds the parameters for checking out a book.
// Staff may lend to any registered user or to an anonymous walk-in by name;
// regular users leave both borrower fields empty and borrow for themselves.
type CheckoutInput struct {
	BookID         uuid.UUID
	BorrowerUserID *string
	BorrowerName   *string
}

// Validate checks all fields and collects all errors.
func (i *CheckoutInput) Validate() error {
	var errs []domain.FieldError

	if i.BookID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "bookId", Message: "required"})
	}
	if i.BorrowerUserID != nil && i.BorrowerName != nil {
		errs = append(errs, domain.FieldError{Field: "borrower", Message: "borrowerUserId and borrowerName are mutually exclusive"})
	}
	if i.BorrowerUserID != nil && *i.BorrowerUserID == "" {
		errs = append(errs, domain.FieldError{Field: "borrowerUserId", Message: "must not be empty"})
	}
	if i.BorrowerName != nil {
		if *i.BorrowerName == "" {
			errs = append(errs, domain.FieldError{Field: "borrowerName", Message: "must not be empty"})
		} else if len(*i.BorrowerName) > 255 {
			errs = append(errs, domain.FieldError{Field: "borrowerName", Message: "too long (max 255)"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListLoansInput holds the parameters for listing loans.
type ListLoansInput struct {
	// BorrowerUserID scopes to one borrower. Ignored for callers without the
	// view-all permission, who always see their own loans only.
	BorrowerUserID *string
	BookID         *uuid.UUID
	Status         *domain.LoanStatus
	Limit          int
	Cursor         *string
}

// Validate checks all fields and collects all errors.
func (i *ListLoansInput) Validate() error {
	if i.Status != nil && !i.Status.Valid() {
		return domain.NewValidationError("status", "must be borrowed or returned")
	}
	return nil
}

// ListLoansResult is one page of loans plus the cursor for the next.
type ListLoansResult struct {
	Loans       []domain.Loan
	HasNextPage bool
	NextCursor  *string
}
