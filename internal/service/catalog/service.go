// Package catalog implements the book catalog business logic: creating,
// reading, listing and deleting books.
package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/libris-backend/internal/config"
	"github.com/heartmarshall/libris-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type bookRepo interface {
	GetByID(ctx context.Context, bookID uuid.UUID) (domain.Book, error)
	List(ctx context.Context, filter domain.BookFilter) ([]domain.Book, bool, error)
	Create(ctx context.Context, book domain.Book) (domain.Book, error)
	Delete(ctx context.Context, bookID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the catalog business logic.
type Service struct {
	log   *slog.Logger
	books bookRepo
	cfg   config.CatalogConfig
}

// NewService creates a new Catalog service.
func NewService(logger *slog.Logger, books bookRepo, cfg config.CatalogConfig) *Service {
	return &Service{
		log:   logger.With("service", "catalog"),
		books: books,
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
