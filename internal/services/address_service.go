// internal/services/address_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/database"
	"github.com/pazarly/pazar-backend/internal/models"
)

type AddressService struct {
	db *gorm.DB
}

type AddressRequest struct {
	Title        string `json:"title" validate:"required,max=100"`
	FullName     string `json:"full_name" validate:"required,max=255"`
	Phone        string `json:"phone" validate:"required,max=30"`
	AddressLine1 string `json:"address_line1" validate:"required,max=255"`
	AddressLine2 string `json:"address_line2" validate:"max=255"`
	City         string `json:"city" validate:"required,max=100"`
	State        string `json:"state" validate:"max=100"`
	PostalCode   string `json:"postal_code" validate:"max=20"`
	Country      string `json:"country" validate:"required,max=100"`
	IsDefault    bool   `json:"is_default"`
}

func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

func (s *AddressService) ListAddresses(userID uuid.UUID) ([]models.Address, error) {
	var addresses []models.Address
	err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch addresses: %w", err)
	}
	return addresses, nil
}

// CreateAddress stores a delivery address. Marking it default clears the
// previous default in the same transaction so at most one exists.
func (s *AddressService) CreateAddress(userID uuid.UUID, req *AddressRequest) (*models.Address, error) {
	address := &models.Address{
		UserID:       userID,
		Title:        req.Title,
		FullName:     req.FullName,
		Phone:        req.Phone,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		IsDefault:    req.IsDefault,
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND is_default = ?", userID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(address).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	return address, nil
}

func (s *AddressService) UpdateAddress(userID, addressID uuid.UUID, req *AddressRequest) (*models.Address, error) {
	var address models.Address
	if err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if req.IsDefault && !address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND is_default = ?", userID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&address).Updates(map[string]interface{}{
			"title":         req.Title,
			"full_name":     req.FullName,
			"phone":         req.Phone,
			"address_line1": req.AddressLine1,
			"address_line2": req.AddressLine2,
			"city":          req.City,
			"state":         req.State,
			"postal_code":   req.PostalCode,
			"country":       req.Country,
			"is_default":    req.IsDefault,
		}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update address: %w", err)
	}

	return &address, nil
}

func (s *AddressService) DeleteAddress(userID, addressID uuid.UUID) error {
	result := s.db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&models.Address{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete address: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAddressNotFound
	}
	return nil
}
