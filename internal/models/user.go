package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:varchar(16);not null" json:"role"`
	Deposit   int64     `gorm:"not null" json:"deposit"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	// Deposit only grows through the vending operations
	u.Deposit = 0
	return nil
}

// Identity returns the caller identity this user authenticates as.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role}
}

// CreateUserInput is the signup payload.
type CreateUserInput struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
	Password string `json:"password" validate:"required,max=72"`
	Role     Role   `json:"role" validate:"required,oneof=buyer seller"`
}
