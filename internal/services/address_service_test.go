// internal/services/address_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/models"
)

type AddressServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *AddressService
}

func (suite *AddressServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewAddressService(suite.db)
}

func (suite *AddressServiceTestSuite) newAddressRequest(title string, isDefault bool) *AddressRequest {
	return &AddressRequest{
		Title:        title,
		FullName:     "Test User",
		Phone:        "+905551112233",
		AddressLine1: "Atatürk Cad. No: 1",
		City:         "Istanbul",
		Country:      "Turkey",
		IsDefault:    isDefault,
	}
}

func (suite *AddressServiceTestSuite) TestDefaultIsExclusive() {
	customer := createCustomer(suite.T(), suite.db)

	first, err := suite.service.CreateAddress(customer.ID, suite.newAddressRequest("Ev", true))
	require.NoError(suite.T(), err)
	assert.True(suite.T(), first.IsDefault)

	second, err := suite.service.CreateAddress(customer.ID, suite.newAddressRequest("İş", true))
	require.NoError(suite.T(), err)
	assert.True(suite.T(), second.IsDefault)

	var defaultCount int64
	require.NoError(suite.T(), suite.db.Model(&models.Address{}).
		Where("user_id = ? AND is_default = ?", customer.ID, true).
		Count(&defaultCount).Error)
	assert.Equal(suite.T(), int64(1), defaultCount)
}

func (suite *AddressServiceTestSuite) TestUpdateScopedToOwner() {
	customer := createCustomer(suite.T(), suite.db)
	stranger := createCustomer(suite.T(), suite.db)

	address, err := suite.service.CreateAddress(customer.ID, suite.newAddressRequest("Ev", true))
	require.NoError(suite.T(), err)

	_, err = suite.service.UpdateAddress(stranger.ID, address.ID, suite.newAddressRequest("Çalıntı", false))
	assert.ErrorIs(suite.T(), err, ErrAddressNotFound)
}

func (suite *AddressServiceTestSuite) TestListOrdersDefaultFirst() {
	customer := createCustomer(suite.T(), suite.db)

	_, err := suite.service.CreateAddress(customer.ID, suite.newAddressRequest("Ev", false))
	require.NoError(suite.T(), err)
	_, err = suite.service.CreateAddress(customer.ID, suite.newAddressRequest("İş", true))
	require.NoError(suite.T(), err)

	addresses, err := suite.service.ListAddresses(customer.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), addresses, 2)
	assert.Equal(suite.T(), "İş", addresses[0].Title)
}

func (suite *AddressServiceTestSuite) TestDeleteAddress() {
	customer := createCustomer(suite.T(), suite.db)

	address, err := suite.service.CreateAddress(customer.ID, suite.newAddressRequest("Ev", true))
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.service.DeleteAddress(customer.ID, address.ID))
	assert.ErrorIs(suite.T(), suite.service.DeleteAddress(customer.ID, address.ID), ErrAddressNotFound)
}

func TestAddressServiceSuite(t *testing.T) {
	suite.Run(t, new(AddressServiceTestSuite))
}
