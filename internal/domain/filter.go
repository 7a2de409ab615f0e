package domain

import "github.com/google/uuid"

// Book list sort orders.
const (
	BookSortCreatedDesc = "createdAt:desc"
	BookSortCreatedAsc  = "createdAt:asc"
	BookSortTitleAsc    = "title:asc"
)

// BookFilter contains filtering/pagination parameters for book listings.
type BookFilter struct {
	// Query matches title OR author with ILIKE '%...%'.
	Query *string
	// Author matches author with ILIKE '%...%'.
	Author *string
	// AvailableOnly keeps books with available_copies > 0.
	AvailableOnly bool
	// Sort is one of the BookSort* constants. Default: BookSortCreatedDesc.
	Sort string
	// Limit is the page size; the repo fetches limit+1 to probe for a next page.
	Limit int
	// Cursor is the opaque keyset cursor. nil means first page.
	Cursor *string
}

// LoanFilter contains filtering/pagination parameters for loan listings.
// Sort order is fixed: borrowed_at DESC, id DESC.
type LoanFilter struct {
	// BorrowerUserID scopes the listing to a registered borrower.
	BorrowerUserID *string
	BookID         *uuid.UUID
	Status         *LoanStatus
	Limit          int
	Cursor         *string
}
