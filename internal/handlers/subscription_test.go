// internal/handlers/subscription_test.go
package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/middleware"
	"github.com/pazarly/pazar-backend/internal/models"
	"github.com/pazarly/pazar-backend/internal/services"
)

type SubscriptionHandlerTestSuite struct {
	suite.Suite
	db        *gorm.DB
	router    *gin.Engine
	processor *stubProcessor
	seller    *models.User
}

func (suite *SubscriptionHandlerTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.processor = &stubProcessor{}
	suite.seller = createTestUser(suite.T(), suite.db, models.UserTypeSeller)

	starterLimit := 5
	proLimit := 50
	require.NoError(suite.T(), suite.db.Create(&models.SubscriptionPlan{
		Name: "Starter", MaxProducts: &starterLimit, Price: 0, DurationDays: 30,
	}).Error)
	require.NoError(suite.T(), suite.db.Create(&models.SubscriptionPlan{
		Name: "Pro", MaxProducts: &proLimit, Price: 299, DurationDays: 30,
	}).Error)

	subscriptionService := services.NewSubscriptionService(suite.db, suite.processor)
	subscriptionHandler := NewSubscriptionHandler(subscriptionService)

	suite.router = gin.New()
	seller := suite.router.Group("/v1/seller")
	seller.Use(middleware.AuthRequired(), middleware.SellerRequired())
	{
		seller.GET("/subscription", subscriptionHandler.CurrentSubscription)
		seller.GET("/subscription/plans", subscriptionHandler.ListPlans)
		seller.POST("/subscribe", subscriptionHandler.Subscribe)
		seller.POST("/subscription/payment", subscriptionHandler.SubscribeWithPayment)
	}
}

func (suite *SubscriptionHandlerTestSuite) TestSubscribeRequiresAuth() {
	w := doJSON(suite.T(), suite.router, "POST", "/v1/seller/subscribe", "", gin.H{
		"plan_name": "Starter",
	})
	assert.Equal(suite.T(), http.StatusUnauthorized, w.Code)
}

func (suite *SubscriptionHandlerTestSuite) TestSubscribeRejectsCustomers() {
	customer := createTestUser(suite.T(), suite.db, models.UserTypeCustomer)

	w := doJSON(suite.T(), suite.router, "POST", "/v1/seller/subscribe", bearerToken(suite.T(), customer), gin.H{
		"plan_name": "Starter",
	})
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *SubscriptionHandlerTestSuite) TestSubscribeUnknownPlan() {
	w := doJSON(suite.T(), suite.router, "POST", "/v1/seller/subscribe", bearerToken(suite.T(), suite.seller), gin.H{
		"plan_name": "Platinum",
	})
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	response := decodeResponse(suite.T(), w)
	assert.False(suite.T(), response["success"].(bool))
}

func (suite *SubscriptionHandlerTestSuite) TestSubscribeActivatesFreePlan() {
	w := doJSON(suite.T(), suite.router, "POST", "/v1/seller/subscribe", bearerToken(suite.T(), suite.seller), gin.H{
		"plan_name": "Starter",
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	response := decodeResponse(suite.T(), w)
	data := response["data"].(map[string]interface{})
	assert.NotEmpty(suite.T(), data["subscription_id"])

	w = doJSON(suite.T(), suite.router, "GET", "/v1/seller/subscription", bearerToken(suite.T(), suite.seller), nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
}

func (suite *SubscriptionHandlerTestSuite) TestPaymentValidatesCardDetails() {
	w := doJSON(suite.T(), suite.router, "POST", "/v1/seller/subscription/payment", bearerToken(suite.T(), suite.seller), gin.H{
		"plan_name":      "Pro",
		"payment_method": "credit_card",
		"card_details": gin.H{
			"number": "4242",
			"name":   "T",
			"expiry": "1225",
			"cvv":    "1",
		},
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
	assert.Empty(suite.T(), suite.processor.charges)
}

func (suite *SubscriptionHandlerTestSuite) TestPaymentChargesAndActivates() {
	w := doJSON(suite.T(), suite.router, "POST", "/v1/seller/subscription/payment", bearerToken(suite.T(), suite.seller), gin.H{
		"plan_name":      "Pro",
		"payment_method": "credit_card",
		"card_details": gin.H{
			"number": "4242424242424242",
			"name":   "Test Seller",
			"expiry": "12/25",
			"cvv":    "123",
		},
	})
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	require.Len(suite.T(), suite.processor.charges, 1)
	assert.Equal(suite.T(), 299.0, suite.processor.charges[0].Amount)

	response := decodeResponse(suite.T(), w)
	data := response["data"].(map[string]interface{})
	assert.NotEmpty(suite.T(), data["subscription_id"])
	assert.NotNil(suite.T(), data["payment"])
}

func (suite *SubscriptionHandlerTestSuite) TestPaymentFailureLeavesNoSubscription() {
	suite.processor.fail = true

	w := doJSON(suite.T(), suite.router, "POST", "/v1/seller/subscription/payment", bearerToken(suite.T(), suite.seller), gin.H{
		"plan_name":      "Pro",
		"payment_method": "credit_card",
		"card_details": gin.H{
			"number": "4242424242424242",
			"name":   "Test Seller",
			"expiry": "12/25",
			"cvv":    "123",
		},
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	w = doJSON(suite.T(), suite.router, "GET", "/v1/seller/subscription", bearerToken(suite.T(), suite.seller), nil)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *SubscriptionHandlerTestSuite) TestListPlansHidesFreeTierAfterHistory() {
	token := bearerToken(suite.T(), suite.seller)

	w := doJSON(suite.T(), suite.router, "GET", "/v1/seller/subscription/plans", token, nil)
	assert.Equal(suite.T(), http.StatusOK, w.Code)
	response := decodeResponse(suite.T(), w)
	plans := response["data"].(map[string]interface{})["plans"].([]interface{})
	assert.Len(suite.T(), plans, 2)

	w = doJSON(suite.T(), suite.router, "POST", "/v1/seller/subscribe", token, gin.H{"plan_name": "Starter"})
	require.Equal(suite.T(), http.StatusCreated, w.Code)

	w = doJSON(suite.T(), suite.router, "GET", "/v1/seller/subscription/plans", token, nil)
	response = decodeResponse(suite.T(), w)
	plans = response["data"].(map[string]interface{})["plans"].([]interface{})
	assert.Len(suite.T(), plans, 1)
}

func TestSubscriptionHandlerSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionHandlerTestSuite))
}
