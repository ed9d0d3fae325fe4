// internal/models/subscription.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionPlan is a catalog tier. MaxProducts == nil means unlimited.
type SubscriptionPlan struct {
	BaseModel
	Name         string  `json:"name" gorm:"uniqueIndex;size:100;not null"`
	MaxProducts  *int    `json:"max_products"`
	Price        float64 `json:"price" gorm:"type:decimal(10,2);not null"`
	DurationDays int     `json:"duration_days" gorm:"not null"`
}

func (p *SubscriptionPlan) IsFree() bool {
	return p.Price == 0
}

// Subscription rows are never proactively expired on read: a lapsed row keeps
// is_active=true until the reconciler or the seller's next subscribe flips it.
// Readers must combine is_active with end_date > now.
type Subscription struct {
	BaseModel
	SellerID  uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	PlanID    uuid.UUID `json:"plan_id" gorm:"type:uuid;not null"`
	StartDate time.Time `json:"start_date" gorm:"not null"`
	EndDate   time.Time `json:"end_date" gorm:"not null;index"`
	IsActive  bool      `json:"is_active" gorm:"default:true;index"`

	// Relationships
	Plan   *SubscriptionPlan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
	Seller *User             `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}

// Live reports whether the subscription grants selling rights at t.
func (s *Subscription) Live(t time.Time) bool {
	return s.IsActive && s.EndDate.After(t)
}
