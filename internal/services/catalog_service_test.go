// internal/services/catalog_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/models"
	"github.com/pazarly/pazar-backend/internal/utils"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	db            *gorm.DB
	subscriptions *SubscriptionService
	service       *CatalogService
}

func (suite *CatalogServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.subscriptions = NewSubscriptionService(suite.db, &fakeProcessor{})
	suite.service = NewCatalogService(suite.db)
	seedPlans(suite.T(), suite.db)
}

// liveSellerWithProduct sets up a seller with a live subscription, a store
// and one published product.
func (suite *CatalogServiceTestSuite) liveSellerWithProduct(name string) (*models.User, *models.Store, *models.Product) {
	seller := createSeller(suite.T(), suite.db)
	store := createStore(suite.T(), suite.db, seller.ID, "TR330006100519786457841326")
	_, err := suite.subscriptions.Subscribe(seller.ID, "Pro")
	require.NoError(suite.T(), err)
	product := createProduct(suite.T(), suite.db, store.ID, name, 99.90, 10)
	return seller, store, product
}

func (suite *CatalogServiceTestSuite) lapseSubscription(sellerID interface{}) {
	require.NoError(suite.T(), suite.db.Model(&models.Subscription{}).
		Where("seller_id = ?", sellerID).
		Update("end_date", time.Now().Add(-time.Hour)).Error)
}

func (suite *CatalogServiceTestSuite) TestLiveSellerProductsAreVisible() {
	_, _, product := suite.liveSellerWithProduct("Kulaklık")

	products, total, err := suite.service.ListProducts(utils.PaginationParams{Page: 1, Limit: 100})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
	require.Len(suite.T(), products, 1)
	assert.Equal(suite.T(), product.ID, products[0].ID)
}

func (suite *CatalogServiceTestSuite) TestLapsedSellerProductsDisappear() {
	seller, _, product := suite.liveSellerWithProduct("Kulaklık")

	suite.lapseSubscription(seller.ID)

	_, total, err := suite.service.ListProducts(utils.PaginationParams{Page: 1, Limit: 100})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), total)

	// Direct links 404 as well
	_, err = suite.service.GetProduct(product.ID)
	assert.ErrorIs(suite.T(), err, ErrProductNotFound)
}

func (suite *CatalogServiceTestSuite) TestProductsReappearAfterResubscribe() {
	seller, _, _ := suite.liveSellerWithProduct("Kulaklık")

	suite.lapseSubscription(seller.ID)
	_, err := suite.subscriptions.Subscribe(seller.ID, "Pro")
	require.NoError(suite.T(), err)

	_, total, err := suite.service.ListProducts(utils.PaginationParams{Page: 1, Limit: 100})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
}

func (suite *CatalogServiceTestSuite) TestInactiveProductHidden() {
	_, _, product := suite.liveSellerWithProduct("Kulaklık")

	require.NoError(suite.T(), suite.db.Model(product).Update("is_active", false).Error)

	_, total, err := suite.service.ListProducts(utils.PaginationParams{Page: 1, Limit: 100})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), total)
}

func (suite *CatalogServiceTestSuite) TestInactiveStoreHidesProducts() {
	_, store, _ := suite.liveSellerWithProduct("Kulaklık")

	require.NoError(suite.T(), suite.db.Model(store).Update("is_active", false).Error)

	_, total, err := suite.service.ListProducts(utils.PaginationParams{Page: 1, Limit: 100})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), total)
}

func (suite *CatalogServiceTestSuite) TestCategoryAndSearchFilters() {
	_, store, _ := suite.liveSellerWithProduct("Bluetooth Kulaklık")

	book := createProduct(suite.T(), suite.db, store.ID, "Go Kitabı", 30, 5)
	require.NoError(suite.T(), suite.db.Model(book).Update("category", "books").Error)

	products, total, err := suite.service.ListProducts(utils.PaginationParams{Page: 1, Limit: 100, Category: "books"})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
	require.Len(suite.T(), products, 1)
	assert.Equal(suite.T(), "Go Kitabı", products[0].Name)

	_, total, err = suite.service.ListProducts(utils.PaginationParams{Page: 1, Limit: 100, Search: "bluetooth"})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
}

func (suite *CatalogServiceTestSuite) TestCategoriesFacet() {
	_, store, _ := suite.liveSellerWithProduct("Kulaklık")

	book := createProduct(suite.T(), suite.db, store.ID, "Go Kitabı", 30, 5)
	require.NoError(suite.T(), suite.db.Model(book).Update("category", "books").Error)

	categories, err := suite.service.Categories()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"books", "electronics"}, categories)
}

func (suite *CatalogServiceTestSuite) TestCategoriesFacetFollowsVisibility() {
	suite.liveSellerWithProduct("Kulaklık")

	otherSeller, otherStore, _ := suite.liveSellerWithProduct("Roman")
	var book models.Product
	require.NoError(suite.T(), suite.db.Where("store_id = ?", otherStore.ID).First(&book).Error)
	require.NoError(suite.T(), suite.db.Model(&book).Update("category", "books").Error)

	categories, err := suite.service.Categories()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"books", "electronics"}, categories)

	// Lapsing the only seller in a category removes it from the facet,
	// matching what the listing serves.
	suite.lapseSubscription(otherSeller.ID)

	categories, err = suite.service.Categories()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{"electronics"}, categories)
}

func (suite *CatalogServiceTestSuite) TestPaginationCapsAtStorefrontPageSize() {
	_, store, _ := suite.liveSellerWithProduct("Ürün 0")

	for i := 1; i < 120; i++ {
		createProduct(suite.T(), suite.db, store.ID, "Ürün", 10, 1)
	}

	products, total, err := suite.service.ListProducts(utils.PaginationParams{Page: 1, Limit: 100})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(120), total)
	assert.Len(suite.T(), products, 100)

	products, _, err = suite.service.ListProducts(utils.PaginationParams{Page: 2, Limit: 100})
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 20)
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}
