// Package auth defines the verified actor identity the core operates on,
// the role → permission mapping, and JWT access-token handling. The core
// services receive an Actor and never re-validate it.
package auth

import "sort"

// Permission is a single named capability.
type Permission string

const (
	// PermManageBooks allows creating and deleting books.
	PermManageBooks Permission = "manage_books"
	// PermManageLoans allows checking out on behalf of others and
	// returning any loan, not just one's own.
	PermManageLoans Permission = "manage_loans"
	// PermViewAllLoans allows listing loans across all borrowers.
	PermViewAllLoans Permission = "view_all_loans"
)

// Role identifiers carried in the token's role claim.
const (
	RoleAdmin     = "admin"
	RoleLibrarian = "librarian"
	RoleUser      = "user"
)

var rolePermissions = map[string][]Permission{
	RoleAdmin:     {PermManageBooks, PermManageLoans, PermViewAllLoans},
	RoleLibrarian: {PermManageBooks, PermManageLoans, PermViewAllLoans},
	RoleUser:      {},
}

// Actor is a verified identity: an opaque id plus the permission set
// derived from its role. The zero value carries no permissions.
type Actor struct {
	ID          string
	permissions map[Permission]struct{}
}

// NewActor builds an Actor with the permission set for role.
// Unknown roles get the empty set, same as RoleUser.
func NewActor(id, role string) Actor {
	perms := make(map[Permission]struct{})
	for _, p := range rolePermissions[role] {
		perms[p] = struct{}{}
	}
	return Actor{ID: id, permissions: perms}
}

// Can reports whether the actor holds the permission.
func (a Actor) Can(p Permission) bool {
	_, ok := a.permissions[p]
	return ok
}

// Permissions returns the actor's permission set, sorted for stable output.
func (a Actor) Permissions() []Permission {
	perms := make([]Permission, 0, len(a.permissions))
	for p := range a.permissions {
		perms = append(perms, p)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

// IsStaff reports whether the actor may act on other users' loans.
func (a Actor) IsStaff() bool { return a.Can(PermManageLoans) }
