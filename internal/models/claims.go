package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserClaims is the payload of both access and refresh tokens. The user id
// travels in the registered "sub" claim.
type UserClaims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// Identity converts verified claims into the identity the services consume.
func (c *UserClaims) Identity() (Identity, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Identity{}, err
	}
	return Identity{UserID: id, Role: c.Role}, nil
}
