// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/models"
	"github.com/pazarly/pazar-backend/internal/utils"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrSubscriptionRequired = errors.New("active subscription required to list products")
	ErrBankAccountRequired  = errors.New("store bank account required to list products")
)

// QuotaExceededError carries the plan limit so handlers can render it.
type QuotaExceededError struct {
	Limit int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("product quota exceeded: plan allows at most %d products", e.Limit)
}

type ProductService struct {
	db            *gorm.DB
	subscriptions *SubscriptionService
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=255"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category" validate:"required,max=100"`
	Price       float64  `json:"price" validate:"required,min=0"`
	Stock       int      `json:"stock" validate:"min=0"`
	Images      []string `json:"images,omitempty"`
}

type UpdateProductRequest struct {
	Name        string   `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description *string  `json:"description,omitempty"`
	Category    string   `json:"category,omitempty" validate:"omitempty,max=100"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,min=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,min=0"`
	Images      []string `json:"images,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

func NewProductService(db *gorm.DB, subscriptions *SubscriptionService) *ProductService {
	return &ProductService{
		db:            db,
		subscriptions: subscriptions,
	}
}

// CreateProduct lists a new product for the seller's store. This is the only
// entry point where the subscription quota is enforced: no live subscription
// blocks creation outright, and a finite plan limit blocks it once the store
// already holds that many products. Edits are deliberately not re-checked.
func (s *ProductService) CreateProduct(sellerID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	store, err := s.sellerStore(sellerID)
	if err != nil {
		return nil, err
	}

	if store.BankAccount == "" {
		return nil, ErrBankAccountRequired
	}

	sub, err := s.subscriptions.ActiveSubscription(sellerID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubscriptionRequired
	}

	limit, unlimited := ProductLimit(sub.Plan)
	if !unlimited {
		var count int64
		if err := s.db.Model(&models.Product{}).Where("store_id = ?", store.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count products: %w", err)
		}
		if count >= int64(limit) {
			return nil, &QuotaExceededError{Limit: limit}
		}
	}

	product := &models.Product{
		StoreID:     store.ID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
		IsActive:    true,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func (s *ProductService) UpdateProduct(sellerID, productID uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	product, err := s.ownedProduct(sellerID, productID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != "" {
		updates["category"] = req.Category
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Images != nil {
		updates["images"] = pq.StringArray(req.Images)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := s.db.Model(product).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
	}

	return product, nil
}

func (s *ProductService) DeleteProduct(sellerID, productID uuid.UUID) error {
	product, err := s.ownedProduct(sellerID, productID)
	if err != nil {
		return err
	}

	// Soft delete; order items keep their snapshot rows either way.
	if err := s.db.Delete(product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}

func (s *ProductService) SellerProducts(sellerID uuid.UUID, params utils.PaginationParams) ([]models.Product, int64, error) {
	store, err := s.sellerStore(sellerID)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Product{}).Where("store_id = ?", store.ID)

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count seller products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "stock"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch seller products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) sellerStore(sellerID uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := s.db.Where("seller_id = ?", sellerID).First(&store).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &store, nil
}

func (s *ProductService) ownedProduct(sellerID, productID uuid.UUID) (*models.Product, error) {
	store, err := s.sellerStore(sellerID)
	if err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.Where("id = ? AND store_id = ?", productID, store.ID).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}
