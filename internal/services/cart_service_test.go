// internal/services/cart_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/models"
)

type CartServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *CartService

	customer *models.User
	product  *models.Product
}

func (suite *CartServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewCartService(suite.db)

	suite.customer = createCustomer(suite.T(), suite.db)
	seller := createSeller(suite.T(), suite.db)
	store := createStore(suite.T(), suite.db, seller.ID, "TR330006100519786457841326")
	suite.product = createProduct(suite.T(), suite.db, store.ID, "Kulaklık", 149.90, 5)
}

func (suite *CartServiceTestSuite) TestAddItemUpsertsQuantity() {
	item, err := suite.service.AddItem(suite.customer.ID, &AddToCartRequest{ProductID: suite.product.ID, Quantity: 2})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, item.Quantity)

	item, err = suite.service.AddItem(suite.customer.ID, &AddToCartRequest{ProductID: suite.product.ID, Quantity: 1})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 3, item.Quantity)

	// Still a single row
	count, err := suite.service.ItemCount(suite.customer.ID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *CartServiceTestSuite) TestAddItemRespectsStock() {
	_, err := suite.service.AddItem(suite.customer.ID, &AddToCartRequest{ProductID: suite.product.ID, Quantity: 4})
	require.NoError(suite.T(), err)

	_, err = suite.service.AddItem(suite.customer.ID, &AddToCartRequest{ProductID: suite.product.ID, Quantity: 2})
	assert.ErrorIs(suite.T(), err, ErrInsufficientStock)
}

func (suite *CartServiceTestSuite) TestAddItemUnknownProduct() {
	_, err := suite.service.AddItem(suite.customer.ID, &AddToCartRequest{ProductID: suite.customer.ID, Quantity: 1})
	assert.ErrorIs(suite.T(), err, ErrProductNotFound)
}

func (suite *CartServiceTestSuite) TestUpdateItemQuantity() {
	item, err := suite.service.AddItem(suite.customer.ID, &AddToCartRequest{ProductID: suite.product.ID, Quantity: 1})
	require.NoError(suite.T(), err)

	updated, err := suite.service.UpdateItem(suite.customer.ID, item.ID, &UpdateCartItemRequest{Quantity: 4})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, updated.Quantity)

	_, err = suite.service.UpdateItem(suite.customer.ID, item.ID, &UpdateCartItemRequest{Quantity: 9})
	assert.ErrorIs(suite.T(), err, ErrInsufficientStock)
}

func (suite *CartServiceTestSuite) TestRemoveThenReAdd() {
	item, err := suite.service.AddItem(suite.customer.ID, &AddToCartRequest{ProductID: suite.product.ID, Quantity: 2})
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.service.RemoveItem(suite.customer.ID, item.ID))

	// The unique (user, product) slot is free again
	item, err = suite.service.AddItem(suite.customer.ID, &AddToCartRequest{ProductID: suite.product.ID, Quantity: 1})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, item.Quantity)
}

func (suite *CartServiceTestSuite) TestRemoveForeignItem() {
	item, err := suite.service.AddItem(suite.customer.ID, &AddToCartRequest{ProductID: suite.product.ID, Quantity: 1})
	require.NoError(suite.T(), err)

	stranger := createCustomer(suite.T(), suite.db)
	err = suite.service.RemoveItem(stranger.ID, item.ID)
	assert.ErrorIs(suite.T(), err, ErrCartItemNotFound)
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(CartServiceTestSuite))
}
