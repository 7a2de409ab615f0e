package catalog

import (
	"context"
	"fmt"

	"github.com/heartmarshall/libris-backend/internal/domain"
	"github.com/heartmarshall/libris-backend/pkg/ctxutil"
	"github.com/heartmarshall/libris-backend/pkg/cursor"
)

// ListBooks returns a page of the catalog. The next-page cursor is encoded
// from the last row of the page, matching the requested sort order.
func (s *Service) ListBooks(ctx context.Context, input ListBooksInput) (*ListBooksResult, error) {
	if _, ok := ctxutil.ActorFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	sort := input.Sort
	if sort == "" {
		sort = domain.BookSortCreatedDesc
	}

	filter := domain.BookFilter{
		Query:         input.Query,
		Author:        input.Author,
		AvailableOnly: input.AvailableOnly,
		Sort:          sort,
		Limit:         clampLimit(input.Limit, s.cfg.DefaultPageSize, s.cfg.MaxPageSize),
		Cursor:        input.Cursor,
	}

	books, hasNext, err := s.books.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	result := &ListBooksResult{
		Books:       books,
		HasNextPage: hasNext,
	}
	if hasNext && len(books) > 0 {
		last := books[len(books)-1]
		var next string
		if sort == domain.BookSortTitleAsc {
			next = cursor.EncodeTitleID(last.Title, last.ID)
		} else {
			next = cursor.EncodeTimeID(last.CreatedAt, last.ID)
		}
		result.NextCursor = &next
	}
	return result, nil
}
