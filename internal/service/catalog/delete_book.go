package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/libris-backend/internal/auth"
	"github.com/heartmarshall/libris-backend/internal/domain"
	"github.com/heartmarshall/libris-backend/pkg/ctxutil"
)

// DeleteBook removes a book from the catalog. Requires the manage-books
// permission. A book with any lending history, active or returned, cannot
// be deleted; the storage FK restriction surfaces as a conflict.
func (s *Service) DeleteBook(ctx context.Context, bookID uuid.UUID) error {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if !actor.Can(auth.PermManageBooks) {
		return fmt.Errorf("delete book: %w", domain.ErrForbidden)
	}

	if err := s.books.Delete(ctx, bookID); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "book deleted",
		"book_id", bookID,
		"actor_id", actor.ID,
	)
	return nil
}
