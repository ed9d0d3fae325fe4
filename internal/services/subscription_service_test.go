// internal/services/subscription_service_test.go
package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/models"
)

type SubscriptionServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	processor *fakeProcessor
	service   *SubscriptionService
	starter   models.SubscriptionPlan
	pro       models.SubscriptionPlan
	unlimited models.SubscriptionPlan
}

func (suite *SubscriptionServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.processor = &fakeProcessor{}
	suite.service = NewSubscriptionService(suite.db, suite.processor)
	suite.starter, suite.pro, suite.unlimited = seedPlans(suite.T(), suite.db)
}

func (suite *SubscriptionServiceTestSuite) TestSubscribeActivatesPlan() {
	seller := createSeller(suite.T(), suite.db)

	sub, err := suite.service.Subscribe(seller.ID, "Pro")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), suite.pro.ID, sub.PlanID)
	assert.True(suite.T(), sub.IsActive)
	assert.WithinDuration(suite.T(), time.Now().AddDate(0, 0, 30), sub.EndDate, time.Minute)

	active, err := suite.service.ActiveSubscription(seller.ID)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), active)
	assert.Equal(suite.T(), sub.ID, active.ID)
	require.NotNil(suite.T(), active.Plan)
	assert.Equal(suite.T(), "Pro", active.Plan.Name)
}

func (suite *SubscriptionServiceTestSuite) TestSubscribeReplacesPreviousSubscription() {
	seller := createSeller(suite.T(), suite.db)

	first, err := suite.service.Subscribe(seller.ID, "Starter")
	require.NoError(suite.T(), err)

	second, err := suite.service.Subscribe(seller.ID, "Pro")
	require.NoError(suite.T(), err)

	var old models.Subscription
	require.NoError(suite.T(), suite.db.First(&old, first.ID).Error)
	assert.False(suite.T(), old.IsActive)

	var activeCount int64
	require.NoError(suite.T(), suite.db.Model(&models.Subscription{}).
		Where("seller_id = ? AND is_active = ?", seller.ID, true).
		Count(&activeCount).Error)
	assert.Equal(suite.T(), int64(1), activeCount)

	active, err := suite.service.ActiveSubscription(seller.ID)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), active)
	assert.Equal(suite.T(), second.ID, active.ID)
}

func (suite *SubscriptionServiceTestSuite) TestConcurrentSubscribesLeaveOneLiveRow() {
	seller := createSeller(suite.T(), suite.db)

	// Same storage guard production carries on postgres; a subscribe that
	// races past the deactivate step trips it here too.
	require.NoError(suite.T(), suite.db.Exec(
		"CREATE UNIQUE INDEX uniq_subscriptions_seller_live ON subscriptions(seller_id) WHERE is_active AND deleted_at IS NULL",
	).Error)

	const attempts = 8
	plans := []string{"Starter", "Pro", "Unlimited"}

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(planName string) {
			defer wg.Done()
			_, err := suite.service.Subscribe(seller.ID, planName)
			errs <- err
		}(plans[i%len(plans)])
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(suite.T(), err)
	}

	var rows int64
	require.NoError(suite.T(), suite.db.Model(&models.Subscription{}).
		Where("seller_id = ?", seller.ID).
		Count(&rows).Error)
	assert.Equal(suite.T(), int64(attempts), rows)

	var liveCount int64
	require.NoError(suite.T(), suite.db.Model(&models.Subscription{}).
		Where("seller_id = ? AND is_active = ? AND end_date > ?", seller.ID, true, time.Now()).
		Count(&liveCount).Error)
	assert.Equal(suite.T(), int64(1), liveCount)
}

func (suite *SubscriptionServiceTestSuite) TestSubscribeUnknownPlan() {
	seller := createSeller(suite.T(), suite.db)

	_, err := suite.service.Subscribe(seller.ID, "Platinum")
	assert.ErrorIs(suite.T(), err, ErrPlanNotFound)
}

func (suite *SubscriptionServiceTestSuite) TestActiveSubscriptionIgnoresLapsedRows() {
	seller := createSeller(suite.T(), suite.db)

	sub, err := suite.service.Subscribe(seller.ID, "Pro")
	require.NoError(suite.T(), err)

	// The row stays is_active in storage after the end date passes; the
	// read-time predicate must still treat it as lapsed.
	require.NoError(suite.T(), suite.db.Model(&models.Subscription{}).
		Where("id = ?", sub.ID).
		Update("end_date", time.Now().Add(-time.Hour)).Error)

	active, err := suite.service.ActiveSubscription(seller.ID)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), active)
}

func (suite *SubscriptionServiceTestSuite) TestReconcileLapsed() {
	seller := createSeller(suite.T(), suite.db)

	sub, err := suite.service.Subscribe(seller.ID, "Pro")
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.db.Model(&models.Subscription{}).
		Where("id = ?", sub.ID).
		Update("end_date", time.Now().Add(-time.Hour)).Error)

	count, err := suite.service.ReconcileLapsed(time.Now())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), count)

	var reloaded models.Subscription
	require.NoError(suite.T(), suite.db.First(&reloaded, sub.ID).Error)
	assert.False(suite.T(), reloaded.IsActive)

	// Idempotent on a second pass
	count, err = suite.service.ReconcileLapsed(time.Now())
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *SubscriptionServiceTestSuite) TestListPlansHidesFreeTierAfterHistory() {
	seller := createSeller(suite.T(), suite.db)

	plans, err := suite.service.ListPlans(seller.ID)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), plans, 3)

	_, err = suite.service.Subscribe(seller.ID, "Starter")
	require.NoError(suite.T(), err)

	plans, err = suite.service.ListPlans(seller.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), plans, 2)
	for _, plan := range plans {
		assert.False(suite.T(), plan.IsFree())
	}
}

func (suite *SubscriptionServiceTestSuite) TestSubscribeWithPaymentChargesPaidPlan() {
	seller := createSeller(suite.T(), suite.db)

	sub, payment, err := suite.service.SubscribeWithPayment(seller.ID, "Pro", "card")
	require.NoError(suite.T(), err)

	require.Len(suite.T(), suite.processor.charges, 1)
	assert.Equal(suite.T(), 299.0, suite.processor.charges[0].Amount)

	require.NotNil(suite.T(), payment)
	assert.Equal(suite.T(), models.PaymentStatusCompleted, payment.Status)
	assert.Equal(suite.T(), sub.ID, *payment.SubscriptionID)
	assert.NotEmpty(suite.T(), payment.TransactionID)
}

func (suite *SubscriptionServiceTestSuite) TestSubscribeWithPaymentSkipsChargeForFreePlan() {
	seller := createSeller(suite.T(), suite.db)

	sub, payment, err := suite.service.SubscribeWithPayment(seller.ID, "Starter", "card")
	require.NoError(suite.T(), err)

	assert.Empty(suite.T(), suite.processor.charges)
	assert.Nil(suite.T(), payment)
	assert.Equal(suite.T(), suite.starter.ID, sub.PlanID)
}

func (suite *SubscriptionServiceTestSuite) TestSubscribeWithPaymentFailedCharge() {
	seller := createSeller(suite.T(), suite.db)
	suite.processor.fail = true

	_, _, err := suite.service.SubscribeWithPayment(seller.ID, "Pro", "card")
	assert.ErrorIs(suite.T(), err, ErrPaymentFailed)

	active, err := suite.service.ActiveSubscription(seller.ID)
	require.NoError(suite.T(), err)
	assert.Nil(suite.T(), active)
}

func TestSubscriptionServiceSuite(t *testing.T) {
	suite.Run(t, new(SubscriptionServiceTestSuite))
}

func TestProductLimit(t *testing.T) {
	limit, unlimited := ProductLimit(nil)
	assert.Equal(t, 0, limit)
	assert.False(t, unlimited)

	five := 5
	limit, unlimited = ProductLimit(&models.SubscriptionPlan{MaxProducts: &five})
	assert.Equal(t, 5, limit)
	assert.False(t, unlimited)

	_, unlimited = ProductLimit(&models.SubscriptionPlan{MaxProducts: nil})
	assert.True(t, unlimited)
}
