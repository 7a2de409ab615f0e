package domain

import (
	"errors"
	"testing"
)

func TestRegisteredBorrower(t *testing.T) {
	t.Parallel()

	b, err := RegisteredBorrower("user-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.IsRegistered() {
		t.Fatal("expected IsRegistered() = true")
	}
	if id, ok := b.UserID(); !ok || id != "user-123" {
		t.Fatalf("UserID() = (%q, %v)", id, ok)
	}
	if _, ok := b.Name(); ok {
		t.Fatal("Name() should not be set for a registered borrower")
	}

	userID, name := b.Columns()
	if userID == nil || *userID != "user-123" || name != nil {
		t.Fatalf("Columns() = (%v, %v)", userID, name)
	}
}

func TestAnonymousBorrower(t *testing.T) {
	t.Parallel()

	b, err := AnonymousBorrower("Walk-in Patron")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.IsRegistered() {
		t.Fatal("expected IsRegistered() = false")
	}
	if name, ok := b.Name(); !ok || name != "Walk-in Patron" {
		t.Fatalf("Name() = (%q, %v)", name, ok)
	}

	userID, name := b.Columns()
	if userID != nil || name == nil || *name != "Walk-in Patron" {
		t.Fatalf("Columns() = (%v, %v)", userID, name)
	}
}

func TestBorrower_EmptyArmsRejected(t *testing.T) {
	t.Parallel()

	if _, err := RegisteredBorrower(""); !errors.Is(err, ErrValidation) {
		t.Fatalf("RegisteredBorrower(\"\") error = %v, want ErrValidation", err)
	}
	if _, err := AnonymousBorrower(""); !errors.Is(err, ErrValidation) {
		t.Fatalf("AnonymousBorrower(\"\") error = %v, want ErrValidation", err)
	}
}

func TestBorrowerFromRow(t *testing.T) {
	t.Parallel()

	userID := "user-1"
	name := "Someone"

	b, err := BorrowerFromRow(&userID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !b.IsRegistered() {
		t.Fatal("expected registered borrower")
	}

	b, err = BorrowerFromRow(nil, &name)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.IsRegistered() {
		t.Fatal("expected anonymous borrower")
	}

	if _, err := BorrowerFromRow(nil, nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("both arms empty: error = %v, want ErrValidation", err)
	}
	if _, err := BorrowerFromRow(&userID, &name); !errors.Is(err, ErrValidation) {
		t.Fatalf("both arms set: error = %v, want ErrValidation", err)
	}
}

func TestLoanStatus_Valid(t *testing.T) {
	t.Parallel()

	if !LoanStatusBorrowed.Valid() || !LoanStatusReturned.Valid() {
		t.Fatal("known statuses should be valid")
	}
	if LoanStatus("overdue").Valid() {
		t.Fatal("unknown status should be invalid")
	}
}
