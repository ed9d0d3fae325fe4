// internal/services/return_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/models"
	"github.com/pazarly/pazar-backend/internal/utils"
)

var (
	ErrReturnNotFound     = errors.New("return request not found")
	ErrReturnExists       = errors.New("return request already exists for this item")
	ErrReturnNotDelivered = errors.New("returns are only accepted for delivered orders")
	ErrReturnResolved     = errors.New("return request already resolved")
	ErrOrderItemNotFound  = errors.New("order item not found")
)

type ReturnService struct {
	db *gorm.DB
}

type CreateReturnRequest struct {
	OrderItemID uuid.UUID `json:"order_item_id" validate:"required"`
	Reason      string    `json:"reason" validate:"required,min=10,max=2000"`
}

type ResolveReturnRequest struct {
	Status models.ReturnStatus `json:"status" validate:"required,oneof=approved rejected"`
}

func NewReturnService(db *gorm.DB) *ReturnService {
	return &ReturnService{db: db}
}

// CreateReturn opens a return request for a single order line. Only the
// buying customer can file one, only once per line, and only after the
// order reached delivered.
func (s *ReturnService) CreateReturn(customerID uuid.UUID, req *CreateReturnRequest) (*models.ReturnRequest, error) {
	var item models.OrderItem
	err := s.db.Preload("Order").First(&item, req.OrderItemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if item.Order == nil || item.Order.CustomerID != customerID {
		return nil, ErrOrderItemNotFound
	}
	if item.Order.Status != models.OrderStatusDelivered {
		return nil, ErrReturnNotDelivered
	}

	var count int64
	if err := s.db.Model(&models.ReturnRequest{}).Where("order_item_id = ?", item.ID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrReturnExists
	}

	ret := &models.ReturnRequest{
		OrderItemID: item.ID,
		Reason:      req.Reason,
		Status:      models.ReturnStatusPending,
	}
	if err := s.db.Create(ret).Error; err != nil {
		return nil, fmt.Errorf("failed to create return request: %w", err)
	}

	return ret, nil
}

func (s *ReturnService) CustomerReturns(customerID uuid.UUID, params utils.PaginationParams) ([]models.ReturnRequest, int64, error) {
	customerItems := s.db.Model(&models.OrderItem{}).
		Select("order_items.id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.customer_id = ?", customerID)

	return s.listReturns(s.db.Model(&models.ReturnRequest{}).Where("order_item_id IN (?)", customerItems), params)
}

// SellerReturns lists return requests against the seller's own products.
func (s *ReturnService) SellerReturns(sellerID uuid.UUID, params utils.PaginationParams) ([]models.ReturnRequest, int64, error) {
	return s.listReturns(s.db.Model(&models.ReturnRequest{}).
		Where("order_item_id IN (?)", s.sellerOrderItemIDs(sellerID)), params)
}

// ResolveReturn lets the seller approve or reject a pending request. A
// resolved request is final.
func (s *ReturnService) ResolveReturn(sellerID, returnID uuid.UUID, status models.ReturnStatus) (*models.ReturnRequest, error) {
	var ret models.ReturnRequest
	err := s.db.Preload("OrderItem").Preload("OrderItem.Product").
		Where("id = ? AND order_item_id IN (?)", returnID, s.sellerOrderItemIDs(sellerID)).
		First(&ret).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReturnNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if ret.Status != models.ReturnStatusPending {
		return nil, ErrReturnResolved
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      status,
		"resolved_at": &now,
	}
	if err := s.db.Model(&ret).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve return request: %w", err)
	}

	ret.Status = status
	ret.ResolvedAt = &now
	return &ret, nil
}

func (s *ReturnService) listReturns(query *gorm.DB, params utils.PaginationParams) ([]models.ReturnRequest, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count return requests: %w", err)
	}

	query = query.Preload("OrderItem").Preload("OrderItem.Product").Order("created_at DESC")
	query = utils.ApplyPagination(query, params)

	var returns []models.ReturnRequest
	if err := query.Find(&returns).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch return requests: %w", err)
	}

	return returns, total, nil
}

func (s *ReturnService) sellerOrderItemIDs(sellerID uuid.UUID) *gorm.DB {
	sellerStore := s.db.Model(&models.Store{}).Select("id").Where("seller_id = ?", sellerID)
	sellerProducts := s.db.Model(&models.Product{}).Unscoped().Select("id").Where("store_id IN (?)", sellerStore)
	return s.db.Model(&models.OrderItem{}).Select("id").Where("product_id IN (?)", sellerProducts)
}
