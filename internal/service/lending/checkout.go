package lending

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/libris-backend/internal/auth"
	"github.com/heartmarshall/libris-backend/internal/domain"
	"github.com/heartmarshall/libris-backend/pkg/ctxutil"
)

// Checkout lends one copy of a book to a borrower. The book row is locked
// for the whole transaction, so the availability check and the decrement
// are atomic; a same-borrower duplicate that slips past the unlocked
// pre-check is caught by the active-loan unique index on insert.
func (s *Service) Checkout(ctx context.Context, input CheckoutInput) (domain.Loan, error) {
	actor, ok := ctxutil.ActorFromCtx(ctx)
	if !ok {
		return domain.Loan{}, domain.ErrUnauthorized
	}

	if err := input.Validate(); err != nil {
		return domain.Loan{}, err
	}

	borrower, err := resolveBorrower(actor, input)
	if err != nil {
		return domain.Loan{}, err
	}

	var loanID uuid.UUID
	txErr := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		book, err := s.books.GetForUpdate(txCtx, input.BookID)
		if err != nil {
			return err
		}

		if userID, registered := borrower.UserID(); registered {
			has, err := s.loans.HasActiveLoan(txCtx, userID, input.BookID)
			if err != nil {
				return err
			}
			if has {
				return fmt.Errorf("book %s: %w", input.BookID, domain.ErrAlreadyBorrowed)
			}
		}

		if book.AvailableCopies < 1 {
			return fmt.Errorf("book %s: %w", input.BookID, domain.ErrBookUnavailable)
		}
		if err := s.books.AdjustCopies(txCtx, input.BookID, -1); err != nil {
			return err
		}

		loanID, err = s.loans.Create(txCtx, input.BookID, borrower, actor.ID, nowUTC())
		return err
	})
	if txErr != nil {
		return domain.Loan{}, txErr
	}

	created, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return domain.Loan{}, fmt.Errorf("reload loan: %w", err)
	}

	s.log.InfoContext(ctx, "book checked out",
		"loan_id", created.ID,
		"book_id", created.BookID,
		"borrower", created.Borrower.String(),
		"actor_id", actor.ID,
	)
	return created, nil
}

// resolveBorrower decides who the loan is for. Staff may name any borrower;
// everyone else borrows for themselves.
func resolveBorrower(actor auth.Actor, input CheckoutInput) (domain.Borrower, error) {
	if actor.Can(auth.PermManageLoans) {
		switch {
		case input.BorrowerUserID != nil:
			return domain.RegisteredBorrower(*input.BorrowerUserID)
		case input.BorrowerName != nil:
			return domain.AnonymousBorrower(*input.BorrowerName)
		default:
			return domain.Borrower{}, domain.NewValidationError("borrower", "one of borrowerUserId and borrowerName is required")
		}
	}

	if input.BorrowerUserID != nil && *input.BorrowerUserID != actor.ID {
		return domain.Borrower{}, fmt.Errorf("checkout for another borrower: %w", domain.ErrForbidden)
	}
	if input.BorrowerName != nil {
		return domain.Borrower{}, fmt.Errorf("anonymous checkout: %w", domain.ErrForbidden)
	}
	return domain.RegisteredBorrower(actor.ID)
}
