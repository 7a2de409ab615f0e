package lending

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/libris-backend/internal/auth"
	"github.com/heartmarshall/libris-backend/internal/domain"
	"github.com/heartmarshall/libris-backend/pkg/ctxutil"
	"github.com/heartmarshall/libris-backend/pkg/cursor"
)

// ListLoans returns a page of loans, newest first. Callers without the
// view-all permission see their own loans regardless of the requested scope.
func (s *Service) ListLoans(ctx context.Context, input ListLoansInput) (*ListLoansResult, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return nil, err
	}

	borrowerUserID := input.BorrowerUserID
	if !actor.Can(auth.PermViewAllLoans) {
		own := actor.ID
		borrowerUserID = &own
	}

	filter := domain.LoanFilter{
		BorrowerUserID: borrowerUserID,
		BookID:         input.BookID,
		Status:         input.Status,
		Limit:          clampLimit(input.Limit, s.cfg.DefaultPageSize, s.cfg.MaxPageSize),
		Cursor:         input.Cursor,
	}

	loans, hasNext, err := s.loans.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}

	result := &ListLoansResult{
		Loans:       loans,
		HasNextPage: hasNext,
	}
	if hasNext && len(loans) > 0 {
		last := loans[len(loans)-1]
		next := cursor.EncodeTimeID(last.BorrowedAt, last.ID)
		result.NextCursor = &next
	}
	return result, nil
}

// GetLoan returns a single loan. Borrowers see their own loans; the
// view-all permission covers the rest.
func (s *Service) GetLoan(ctx context.Context, loanID uuid.UUID) (domain.Loan, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.Loan{}, domain.ErrUnauthorized
	}

	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return domain.Loan{}, err
	}

	if !actor.Can(auth.PermViewAllLoans) {
		userID, registered := loan.Borrower.UserID()
		if !registered || userID != actor.ID {
			return domain.Loan{}, fmt.Errorf("view loan %s: %w", loanID, domain.ErrForbidden)
		}
	}
	return loan, nil
}
