package domain

// Borrower identifies who holds a loan: either a registered user (by the
// identity provider's subject id) or an anonymous walk-in recorded by name.
// Exactly one arm is populated; the constructors are the only way to build
// a valid value, so an ad hoc both-or-neither state cannot occur past the
// boundary.
type Borrower struct {
	userID string
	name   string
}

// RegisteredBorrower builds a Borrower for a registered user id.
func RegisteredBorrower(userID string) (Borrower, error) {
	if userID == "" {
		return Borrower{}, NewValidationError("borrowerUserId", "must not be empty")
	}
	return Borrower{userID: userID}, nil
}

// AnonymousBorrower builds a Borrower for a free-text name.
func AnonymousBorrower(name string) (Borrower, error) {
	if name == "" {
		return Borrower{}, NewValidationError("borrowerName", "must not be empty")
	}
	return Borrower{name: name}, nil
}

// BorrowerFromRow rebuilds a Borrower from its two nullable storage columns.
// The loans table carries an XOR check, so rows read back are well-formed;
// a violated assumption still surfaces as a validation error rather than a
// silent zero value.
func BorrowerFromRow(userID, name *string) (Borrower, error) {
	switch {
	case userID != nil && name == nil:
		return RegisteredBorrower(*userID)
	case userID == nil && name != nil:
		return AnonymousBorrower(*name)
	default:
		return Borrower{}, NewValidationError("borrower", "exactly one of borrowerUserId and borrowerName must be set")
	}
}

// IsRegistered reports whether the borrower is a registered user.
func (b Borrower) IsRegistered() bool { return b.userID != "" }

// UserID returns the registered user id, if any.
func (b Borrower) UserID() (string, bool) { return b.userID, b.userID != "" }

// Name returns the free-text name, if any.
func (b Borrower) Name() (string, bool) { return b.name, b.name != "" }

// Columns splits the borrower back into its nullable storage columns.
func (b Borrower) Columns() (userID, name *string) {
	if b.userID != "" {
		return &b.userID, nil
	}
	return nil, &b.name
}

func (b Borrower) String() string {
	if b.userID != "" {
		return b.userID
	}
	return b.name
}
