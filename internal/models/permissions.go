package models

import "github.com/google/uuid"

type Role string

// Account roles. A role is fixed when the account is created.
const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller
}

// Identity is an authenticated caller.
type Identity struct {
	UserID uuid.UUID
	Role   Role
}

// HasRole reports whether the identity may act with the required role.
func HasRole(identity Identity, required Role) bool {
	return identity.UserID != uuid.Nil && identity.Role == required
}
