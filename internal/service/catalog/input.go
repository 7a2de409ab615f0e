package catalog

import (
	"strings"

	"github.com/heartmarshall/libris-backend/internal/domain"
)

// CreateBookInput holds the parameters for adding a book to the catalog.
type CreateBookInput struct {
	Title           string
	Author          string
	Description     *string
	ISBN            *string
	PublishedYear   *int
	AvailableCopies int
	CoverImageURL   *string
}

// Validate checks all fields and collects all errors.
func (i *CreateBookInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Title) == "" {
		errs = append(errs, domain.FieldError{Field: "title", Message: "required"})
	} else if len(i.Title) > 500 {
		errs = append(errs, domain.FieldError{Field: "title", Message: "too long (max 500)"})
	}

	if strings.TrimSpace(i.Author) == "" {
		errs = append(errs, domain.FieldError{Field: "author", Message: "required"})
	} else if len(i.Author) > 255 {
		errs = append(errs, domain.FieldError{Field: "author", Message: "too long (max 255)"})
	}

	if i.Description != nil && len(*i.Description) > 5000 {
		errs = append(errs, domain.FieldError{Field: "description", Message: "too long (max 5000)"})
	}
	if i.ISBN != nil && len(*i.ISBN) > 32 {
		errs = append(errs, domain.FieldError{Field: "isbn", Message: "too long (max 32)"})
	}
	if i.PublishedYear != nil && (*i.PublishedYear < 1 || *i.PublishedYear > 9999) {
		errs = append(errs, domain.FieldError{Field: "publishedYear", Message: "out of range"})
	}
	if i.AvailableCopies < 0 {
		errs = append(errs, domain.FieldError{Field: "availableCopies", Message: "must not be negative"})
	}
	if i.CoverImageURL != nil && len(*i.CoverImageURL) > 2048 {
		errs = append(errs, domain.FieldError{Field: "coverImageUrl", Message: "too long (max 2048)"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ListBooksInput holds the parameters for listing the catalog.
type ListBooksInput struct {
	Query         *string
	Author        *string
	AvailableOnly bool
	Sort          string
	Limit         int
	Cursor        *string
}

// Validate checks all fields and collects all errors.
func (i *ListBooksInput) Validate() error {
	switch i.Sort {
	case "", domain.BookSortCreatedDesc, domain.BookSortCreatedAsc, domain.BookSortTitleAsc:
		return nil
	default:
		return domain.NewValidationError("sort", "must be one of createdAt:desc, createdAt:asc, title:asc")
	}
}

// ListBooksResult is one page of the catalog plus the cursor for the next.
type ListBooksResult struct {
	Books       []domain.Book
	HasNextPage bool
	NextCursor  *string
}
