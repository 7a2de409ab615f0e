package lending

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/libris-backend/internal/auth"
	"github.com/heartmarshall/libris-backend/internal/domain"
	"github.com/heartmarshall/libris-backend/pkg/ctxutil"
)

// Return closes an active loan and puts the copy back on the shelf.
// Borrowers may return their own loans; the manage-loans permission covers
// everyone else's, including anonymous walk-in loans. Returned is terminal.
func (s *Service) Return(ctx context.Context, loanID uuid.UUID) (domain.Loan, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.Loan{}, domain.ErrUnauthorized
	}

	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		loan, err := s.loans.GetForUpdate(txCtx, loanID)
		if err != nil {
			return err
		}

		if !actor.Can(auth.PermManageLoans) {
			userID, registered := loan.Borrower.UserID()
			if !registered || userID != actor.ID {
				return fmt.Errorf("return loan %s: %w", loanID, domain.ErrForbidden)
			}
		}

		if !loan.Active() {
			return fmt.Errorf("loan %s: %w", loanID, domain.ErrLoanAlreadyReturned)
		}

		if err := s.loans.MarkReturned(txCtx, loanID, nowUTC()); err != nil {
			return err
		}
		return s.books.AdjustCopies(txCtx, loan.BookID, +1)
	})
	if txErr != nil {
		return domain.Loan{}, txErr
	}

	returned, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("reload loan: %w", err)
	}

	s.log.InfoContext(ctx, "book returned",
		"loan_id", returned.ID,
		"book_id", returned.BookID,
		"actor_id", actor.ID,
	)
	return returned, nil
}
