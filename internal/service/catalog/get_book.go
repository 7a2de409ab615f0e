package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/heartmarshall/libris-backend/internal/domain"
	"github.com/heartmarshall/libris-backend/pkg/ctxutil"
)

// GetBook returns a single book by ID.
func (s *Service) GetBook(ctx context.Context, bookID uuid.UUID) (domain.Book, error) {
	if _, ok := ctxutil.ActorFromCtx(ctx); !ok {
		return domain.Book{}, domain.ErrUnauthorized
	}

	return s.books.GetByID(ctx, bookID)
}
