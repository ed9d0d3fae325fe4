// internal/services/order_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/database"
	"github.com/pazarly/pazar-backend/internal/models"
	"github.com/pazarly/pazar-backend/internal/utils"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrAddressRequired = errors.New("shipping address required")
	ErrAddressNotFound = errors.New("address not found")
	ErrCartEmpty       = errors.New("cart is empty")
	ErrNotOrderSeller  = errors.New("seller has no items in this order")
)

// InvalidTransitionError carries both states so handlers can render the
// localized message.
type InvalidTransitionError struct {
	From models.OrderStatus
	To   models.OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("order status cannot change from %s to %s", e.From, e.To)
}

type OrderService struct {
	db *gorm.DB
}

type CheckoutRequest struct {
	ShippingAddressID uuid.UUID `json:"shipping_address_id" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// Checkout materializes the customer's cart into an order. The order row,
// its line snapshots, the pending payment record and the cart clear are one
// transaction: either the whole order exists or nothing does. The total is
// computed here from the cart lines, not trusted from the client.
func (s *OrderService) Checkout(customerID uuid.UUID, req *CheckoutRequest) (*models.Order, error) {
	if req == nil || req.ShippingAddressID == uuid.Nil {
		return nil, ErrAddressRequired
	}

	var order *models.Order

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var address models.Address
		if err := tx.Where("id = ? AND user_id = ?", req.ShippingAddressID, customerID).First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAddressNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		var cartItems []models.CartItem
		if err := tx.Preload("Product").Where("user_id = ?", customerID).Find(&cartItems).Error; err != nil {
			return fmt.Errorf("failed to fetch cart items: %w", err)
		}
		if len(cartItems) == 0 {
			return ErrCartEmpty
		}

		total := decimal.Zero
		for _, item := range cartItems {
			if item.Product == nil {
				return ErrProductNotFound
			}
			line := decimal.NewFromFloat(item.Product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
			total = total.Add(line)
		}

		order = &models.Order{
			CustomerID:        customerID,
			ShippingAddressID: address.ID,
			TotalAmount:       total.InexactFloat64(),
			Status:            models.OrderStatusPending,
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, item := range cartItems {
			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Product.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		payment := models.Payment{
			OrderID:       &order.ID,
			Amount:        order.TotalAmount,
			PaymentMethod: "card",
			Status:        models.PaymentStatusPending,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to create payment record: %w", err)
		}

		if err := tx.Where("user_id = ?", customerID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Reload with relationships
	if err := s.db.Preload("OrderItems").Preload("OrderItems.Product").Preload("ShippingAddress").
		First(order, order.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	return order, nil
}

func (s *OrderService) CustomerOrders(customerID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	query := s.db.Model(&models.Order{}).Where("customer_id = ?", customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query = query.Preload("OrderItems").Preload("OrderItems.Product").Preload("ShippingAddress").
		Order("created_at DESC")
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch orders: %w", err)
	}

	return orders, total, nil
}

func (s *OrderService) GetCustomerOrder(customerID, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("OrderItems").Preload("OrderItems.Product").Preload("ShippingAddress").
		Where("id = ? AND customer_id = ?", orderID, customerID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &order, nil
}

// SellerOrders lists orders containing at least one of the seller's
// products, with only that seller's lines preloaded.
func (s *OrderService) SellerOrders(sellerID uuid.UUID, params utils.PaginationParams) ([]models.Order, int64, error) {
	storeProducts := s.sellerProductIDs(sellerID)

	orderIDs := s.db.Model(&models.OrderItem{}).
		Select("order_id").
		Where("product_id IN (?)", storeProducts)

	query := s.db.Model(&models.Order{}).Where("id IN (?)", orderIDs)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count seller orders: %w", err)
	}

	query = query.
		Preload("OrderItems", "product_id IN (?)", storeProducts).
		Preload("OrderItems.Product").
		Preload("ShippingAddress").
		Order("created_at DESC")
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch seller orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus moves an order along the fulfilment machine. The acting
// seller must own at least one line of the order; the status remains
// order-wide.
func (s *OrderService) UpdateStatus(sellerID, orderID uuid.UUID, next models.OrderStatus) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var lineCount int64
	err := s.db.Model(&models.OrderItem{}).
		Where("order_id = ? AND product_id IN (?)", orderID, s.sellerProductIDs(sellerID)).
		Count(&lineCount).Error
	if err != nil {
		return nil, fmt.Errorf("failed to verify order ownership: %w", err)
	}
	if lineCount == 0 {
		return nil, ErrNotOrderSeller
	}

	if !order.Status.CanTransitionTo(next) {
		return nil, &InvalidTransitionError{From: order.Status, To: next}
	}

	if err := s.db.Model(&order).Update("status", next).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = next
	return &order, nil
}

// InvoiceText renders a plain-text invoice for the customer's order. The
// format is free text and intentionally not machine-parseable.
func (s *OrderService) InvoiceText(customerID, orderID uuid.UUID) (string, error) {
	order, err := s.GetCustomerOrder(customerID, orderID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "FATURA / INVOICE\n")
	fmt.Fprintf(&b, "Siparis No: %s\n", order.ID)
	fmt.Fprintf(&b, "Tarih: %s\n", order.CreatedAt.Format("02.01.2006 15:04"))
	fmt.Fprintf(&b, "Durum: %s\n\n", order.Status)

	if order.ShippingAddress != nil {
		addr := order.ShippingAddress
		fmt.Fprintf(&b, "Teslimat Adresi:\n%s\n%s %s\n%s / %s\n\n",
			addr.FullName, addr.AddressLine1, addr.AddressLine2, addr.City, addr.Country)
	}

	fmt.Fprintf(&b, "Urunler:\n")
	for _, item := range order.OrderItems {
		name := item.ProductID.String()
		if item.Product != nil {
			name = item.Product.Name
		}
		fmt.Fprintf(&b, "  %s  x%d  %.2f TL\n", name, item.Quantity, item.Price)
	}

	fmt.Fprintf(&b, "\nToplam: %.2f TL\n", order.TotalAmount)
	return b.String(), nil
}

func (s *OrderService) sellerProductIDs(sellerID uuid.UUID) *gorm.DB {
	sellerStore := s.db.Model(&models.Store{}).Select("id").Where("seller_id = ?", sellerID)
	return s.db.Model(&models.Product{}).Unscoped().Select("id").Where("store_id IN (?)", sellerStore)
}
