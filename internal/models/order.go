// internal/models/order.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Address struct {
	BaseModel
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	Title        string    `json:"title" gorm:"size:100;not null"`
	FullName     string    `json:"full_name" gorm:"size:255;not null"`
	Phone        string    `json:"phone" gorm:"size:30;not null"`
	AddressLine1 string    `json:"address_line1" gorm:"size:255;not null"`
	AddressLine2 string    `json:"address_line2" gorm:"size:255"`
	City         string    `json:"city" gorm:"size:100;not null"`
	State        string    `json:"state" gorm:"size:100"`
	PostalCode   string    `json:"postal_code" gorm:"size:20"`
	Country      string    `json:"country" gorm:"size:100;not null"`
	IsDefault    bool      `json:"is_default" gorm:"default:false"`
}

type Order struct {
	BaseModel
	CustomerID        uuid.UUID   `json:"customer_id" gorm:"type:uuid;not null;index"`
	ShippingAddressID uuid.UUID   `json:"shipping_address_id" gorm:"type:uuid;not null"`
	TotalAmount       float64     `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status            OrderStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	// Relationships
	Customer        *User       `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ShippingAddress *Address    `json:"shipping_address,omitempty" gorm:"foreignKey:ShippingAddressID"`
	OrderItems      []OrderItem `json:"order_items,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots (product, quantity, unit price) at checkout time and is
// never updated afterwards; later product price edits do not touch it.
type OrderItem struct {
	BaseModel
	OrderID   uuid.UUID `json:"order_id" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	Price     float64   `json:"price" gorm:"type:decimal(10,2);not null"`

	// Relationships
	Order   *Order   `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// Payment records a charge attempt for an order or a subscription purchase.
type Payment struct {
	BaseModel
	OrderID        *uuid.UUID    `json:"order_id" gorm:"type:uuid;index"`
	SubscriptionID *uuid.UUID    `json:"subscription_id" gorm:"type:uuid;index"`
	Amount         float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	PaymentMethod  string        `json:"payment_method" gorm:"size:50"`
	Status         PaymentStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	TransactionID  string        `json:"transaction_id" gorm:"size:255"`
	ProcessedAt    *time.Time    `json:"processed_at"`
}

type ReturnRequest struct {
	BaseModel
	OrderItemID uuid.UUID    `json:"order_item_id" gorm:"type:uuid;not null;uniqueIndex"`
	Reason      string       `json:"reason" gorm:"type:text;not null"`
	Status      ReturnStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ResolvedAt  *time.Time   `json:"resolved_at"`

	// Relationships
	OrderItem *OrderItem `json:"order_item,omitempty" gorm:"foreignKey:OrderItemID"`
}
