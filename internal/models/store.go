// internal/models/store.go
package models

import (
	"github.com/google/uuid"
)

// Store is owned 1:1 by a seller. BankAccount gates selling: products cannot
// be listed until the seller has entered a payout account.
type Store struct {
	BaseModel
	SellerID    uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;uniqueIndex"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	LogoURL     string    `json:"logo_url" gorm:"size:512"`
	BannerURL   string    `json:"banner_url" gorm:"size:512"`
	BankAccount string    `json:"bank_account" gorm:"size:64"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`

	// Relationships
	Seller   *User     `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:StoreID"`
}
