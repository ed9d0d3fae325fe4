// internal/services/services_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pazarly/pazar-backend/internal/models"
)

// setupTestDB opens an isolated in-memory database with the full schema.
// Connections are capped at one so every query sees the same memory store.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Store{},
		&models.Product{},
		&models.CartItem{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.ReturnRequest{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.AuditLog{},
	))

	return db
}

func seedPlans(t *testing.T, db *gorm.DB) (starter, pro, unlimited models.SubscriptionPlan) {
	t.Helper()

	starterLimit := 5
	proLimit := 50

	starter = models.SubscriptionPlan{Name: "Starter", MaxProducts: &starterLimit, Price: 0, DurationDays: 30}
	pro = models.SubscriptionPlan{Name: "Pro", MaxProducts: &proLimit, Price: 299, DurationDays: 30}
	unlimited = models.SubscriptionPlan{Name: "Unlimited", MaxProducts: nil, Price: 999, DurationDays: 30}

	require.NoError(t, db.Create(&starter).Error)
	require.NoError(t, db.Create(&pro).Error)
	require.NoError(t, db.Create(&unlimited).Error)
	return starter, pro, unlimited
}

var userSeq int

func createUser(t *testing.T, db *gorm.DB, userType models.UserType) *models.User {
	t.Helper()

	userSeq++
	user := &models.User{
		Username: fmt.Sprintf("user%d", userSeq),
		Email:    fmt.Sprintf("user%d@example.com", userSeq),
		FullName: "Test User",
		UserType: userType,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("TestPass123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createSeller(t *testing.T, db *gorm.DB) *models.User {
	return createUser(t, db, models.UserTypeSeller)
}

func createCustomer(t *testing.T, db *gorm.DB) *models.User {
	return createUser(t, db, models.UserTypeCustomer)
}

func createStore(t *testing.T, db *gorm.DB, sellerID uuid.UUID, bankAccount string) *models.Store {
	t.Helper()

	store := &models.Store{
		SellerID:    sellerID,
		Name:        "Test Store",
		BankAccount: bankAccount,
		IsActive:    true,
	}
	require.NoError(t, db.Create(store).Error)
	return store
}

func createProduct(t *testing.T, db *gorm.DB, storeID uuid.UUID, name string, price float64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		StoreID:  storeID,
		Name:     name,
		Category: "electronics",
		Price:    price,
		Stock:    stock,
		IsActive: true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func createAddress(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Address {
	t.Helper()

	address := &models.Address{
		UserID:       userID,
		Title:        "Home",
		FullName:     "Test User",
		Phone:        "+905551112233",
		AddressLine1: "Atatürk Cad. No: 1",
		City:         "Istanbul",
		Country:      "Turkey",
		IsDefault:    true,
	}
	require.NoError(t, db.Create(address).Error)
	return address
}

// fakeProcessor records charges instead of hitting a gateway.
type fakeProcessor struct {
	charges []ChargeRequest
	fail    bool
}

func (p *fakeProcessor) Charge(req *ChargeRequest) (*ChargeResult, error) {
	if p.fail {
		return nil, ErrPaymentFailed
	}
	p.charges = append(p.charges, *req)
	return &ChargeResult{
		Reference: fmt.Sprintf("pay_test_%d", len(p.charges)),
		Status:    "succeeded",
	}, nil
}
