// internal/services/catalog_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/models"
	"github.com/pazarly/pazar-backend/internal/utils"
)

// CatalogService serves the public storefront: product browsing, the
// category facet and store pages. Visibility requires the product to be
// active AND its seller to hold a live subscription, which is what makes
// lapsed sellers' products disappear without any destructive write.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) visibleProducts() *gorm.DB {
	liveSellers := s.db.Model(&models.Subscription{}).
		Select("seller_id").
		Where("is_active = ? AND end_date > ?", true, time.Now())

	visibleStores := s.db.Model(&models.Store{}).
		Select("id").
		Where("is_active = ? AND seller_id IN (?)", true, liveSellers)

	return s.db.Model(&models.Product{}).
		Where("is_active = ?", true).
		Where("store_id IN (?)", visibleStores)
}

// ListProducts returns at most one storefront page (100 items) of visible
// products, newest first, with the total page count derivable from the
// returned total.
func (s *CatalogService) ListProducts(params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.visibleProducts().Preload("Store")

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query = query.Order("created_at DESC")
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// Categories returns the distinct, empty-filtered category facet over the
// same visible set the listing serves, so the facet never advertises a
// category whose products are all hidden.
func (s *CatalogService) Categories() ([]string, error) {
	var categories []string
	err := s.visibleProducts().
		Where("category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

// GetProduct applies the same visibility rule as the listing, so a direct
// link to a lapsed seller's product 404s rather than leaking it.
func (s *CatalogService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := s.visibleProducts().Preload("Store").
		Where("products.id = ?", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *CatalogService) ListStores(params utils.PaginationParams) ([]models.Store, int64, error) {
	query := s.db.Model(&models.Store{}).Where("is_active = ?", true)

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stores: %w", err)
	}

	query = query.Order("created_at DESC")
	query = utils.ApplyPagination(query, params)

	var stores []models.Store
	if err := query.Find(&stores).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch stores: %w", err)
	}

	return stores, total, nil
}

func (s *CatalogService) GetStore(id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := s.db.Preload("Products", "is_active = ?", true).
		Where("id = ? AND is_active = ?", id, true).
		First(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &store, nil
}
