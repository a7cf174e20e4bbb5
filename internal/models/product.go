package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SellerID        uuid.UUID `gorm:"type:uuid;index;not null" json:"sellerId"`
	ProductName     string    `gorm:"not null" json:"productName"`
	Cost            int64     `gorm:"not null" json:"cost"`
	AmountAvailable int64     `gorm:"not null" json:"amountAvailable"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CreateProductInput is the payload a seller sends to list a product.
type CreateProductInput struct {
	ProductName     string `json:"productName" validate:"required,max=255"`
	Cost            int64  `json:"cost" validate:"required,gte=1"`
	AmountAvailable int64  `json:"amountAvailable" validate:"gte=0"`
}

// UpdateProductInput carries a partial update; nil fields are left untouched.
type UpdateProductInput struct {
	ProductName     *string `json:"productName,omitempty"`
	Cost            *int64  `json:"cost,omitempty"`
	AmountAvailable *int64  `json:"amountAvailable,omitempty"`
}
