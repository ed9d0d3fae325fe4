// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a customer or seller profile. UserType is fixed at registration;
// there is no role-change flow.
type User struct {
	BaseModel
	Username     string     `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string     `json:"-" gorm:"size:255;not null"`
	FullName     string     `json:"full_name" gorm:"size:255;not null"`
	Phone        string     `json:"phone" gorm:"size:30"`
	AvatarURL    string     `json:"avatar_url" gorm:"size:512"`
	UserType     UserType   `json:"user_type" gorm:"type:varchar(20);not null;index"`
	Status       UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	LastLoginAt  *time.Time `json:"last_login_at"`

	// Relationships
	Store         *Store         `json:"store,omitempty" gorm:"foreignKey:SellerID"`
	Addresses     []Address      `json:"addresses,omitempty" gorm:"foreignKey:UserID"`
	CartItems     []CartItem     `json:"cart_items,omitempty" gorm:"foreignKey:UserID"`
	Orders        []Order        `json:"orders,omitempty" gorm:"foreignKey:CustomerID"`
	Subscriptions []Subscription `json:"subscriptions,omitempty" gorm:"foreignKey:SellerID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
