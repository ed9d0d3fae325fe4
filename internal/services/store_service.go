// internal/services/store_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/models"
)

var (
	ErrStoreNotFound = errors.New("store not found")
	ErrStoreExists   = errors.New("seller already has a store")
)

type StoreService struct {
	db *gorm.DB
}

type CreateStoreRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"max=2000"`
	LogoURL     string `json:"logo_url" validate:"omitempty,url"`
	BankAccount string `json:"bank_account" validate:"omitempty,min=15,max=34"`
}

type UpdateStoreRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	LogoURL     *string `json:"logo_url" validate:"omitempty,url"`
	BankAccount *string `json:"bank_account" validate:"omitempty,min=15,max=34"`
	IsActive    *bool   `json:"is_active"`
}

// DashboardStats aggregates the seller dashboard header numbers.
type DashboardStats struct {
	ProductCount   int64   `json:"product_count"`
	ProductLimit   *int    `json:"product_limit"`
	OrderCount     int64   `json:"order_count"`
	PendingOrders  int64   `json:"pending_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	PendingReturns int64   `json:"pending_returns"`
	PlanName       string  `json:"plan_name"`
	PlanExpiresAt  *string `json:"plan_expires_at"`
}

func NewStoreService(db *gorm.DB) *StoreService {
	return &StoreService{db: db}
}

// CreateStore opens the seller's store. Each seller gets exactly one; a
// second create attempt fails.
func (s *StoreService) CreateStore(sellerID uuid.UUID, req *CreateStoreRequest) (*models.Store, error) {
	var count int64
	if err := s.db.Model(&models.Store{}).Where("seller_id = ?", sellerID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if count > 0 {
		return nil, ErrStoreExists
	}

	store := &models.Store{
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		LogoURL:     req.LogoURL,
		BankAccount: req.BankAccount,
		IsActive:    true,
	}
	if err := s.db.Create(store).Error; err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}

	return store, nil
}

func (s *StoreService) UpdateStore(sellerID uuid.UUID, req *UpdateStoreRequest) (*models.Store, error) {
	store, err := s.MyStore(sellerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.LogoURL != nil {
		updates["logo_url"] = *req.LogoURL
	}
	if req.BankAccount != nil {
		updates["bank_account"] = *req.BankAccount
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(store).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update store: %w", err)
		}
	}

	return store, nil
}

func (s *StoreService) MyStore(sellerID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := s.db.Where("seller_id = ?", sellerID).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &store, nil
}

// Dashboard collects the store overview counters shown on the seller
// dashboard landing page.
func (s *StoreService) Dashboard(sellerID uuid.UUID) (*DashboardStats, error) {
	store, err := s.MyStore(sellerID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{}

	if err := s.db.Model(&models.Product{}).Where("store_id = ?", store.ID).Count(&stats.ProductCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	productIDs := s.db.Model(&models.Product{}).Unscoped().Select("id").Where("store_id = ?", store.ID)
	sellerOrders := s.db.Model(&models.OrderItem{}).Select("order_id").Where("product_id IN (?)", productIDs)

	if err := s.db.Model(&models.Order{}).Where("id IN (?)", sellerOrders).Count(&stats.OrderCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.Model(&models.Order{}).
		Where("id IN (?) AND status = ?", sellerOrders, models.OrderStatusPending).
		Count(&stats.PendingOrders).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}

	// Revenue counts only the seller's own lines of delivered orders.
	type revenueRow struct{ Total float64 }
	var row revenueRow
	err = s.db.Model(&models.OrderItem{}).
		Select("COALESCE(SUM(order_items.price * order_items.quantity), 0) as total").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.product_id IN (?) AND orders.status = ? AND orders.deleted_at IS NULL",
			productIDs, models.OrderStatusDelivered).
		Scan(&row).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	stats.TotalRevenue = row.Total

	sellerOrderItems := s.db.Model(&models.OrderItem{}).Select("id").Where("product_id IN (?)", productIDs)
	if err := s.db.Model(&models.ReturnRequest{}).
		Where("order_item_id IN (?) AND status = ?", sellerOrderItems, models.ReturnStatusPending).
		Count(&stats.PendingReturns).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending returns: %w", err)
	}

	subService := NewSubscriptionService(s.db, nil)
	sub, err := subService.ActiveSubscription(sellerID)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		if sub.Plan != nil {
			stats.PlanName = sub.Plan.Name
			stats.ProductLimit = sub.Plan.MaxProducts
		}
		expires := sub.EndDate.Format(time.RFC3339)
		stats.PlanExpiresAt = &expires
	}

	return stats, nil
}
