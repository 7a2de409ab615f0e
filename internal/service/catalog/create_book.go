package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/heartmarshall/libris-backend/internal/auth"
	"github.com/heartmarshall/libris-backend/internal/domain"
	"github.com/heartmarshall/libris-backend/pkg/ctxutil"
)

// CreateBook adds a book to the catalog. Requires the manage-books permission.
func (s *Service) CreateBook(ctx context.Context, input CreateBookInput) (domain.Book, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.Book{}, domain.ErrUnauthorized
	}
	if !actor.Can(auth.PermManageBooks) {
		return domain.Book{}, fmt.Errorf("create book: %w", domain.ErrForbidden)
	}

	if err := input.Validate(); err != nil {
		return domain.Book{}, err
	}

	created, err := s.books.Create(ctx, domain.Book{
		Title:           strings.TrimSpace(input.Title),
		Author:          strings.TrimSpace(input.Author),
		Description:     input.Description,
		ISBN:            input.ISBN,
		PublishedYear:   input.PublishedYear,
		AvailableCopies: input.AvailableCopies,
		CoverImageURL:   input.CoverImageURL,
	})
	if err != nil {
		return domain.Book{}, fmt.Errorf("create book: %w", err)
	}

	s.log.InfoContext(ctx, "book created",
		"book_id", created.ID,
		"title", created.Title,
		"actor_id", actor.ID,
	)
	return created, nil
}
