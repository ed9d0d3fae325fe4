// internal/services/subscription_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/pazarly/pazar-backend/internal/database"
	"github.com/pazarly/pazar-backend/internal/models"
)

var ErrPlanNotFound = errors.New("subscription plan not found")

type SubscriptionService struct {
	db        *gorm.DB
	processor PaymentProcessor
}

func NewSubscriptionService(db *gorm.DB, processor PaymentProcessor) *SubscriptionService {
	return &SubscriptionService{
		db:        db,
		processor: processor,
	}
}

// ProductLimit derives the product quota from a plan. A nil plan grants
// nothing; a nil MaxProducts means unlimited.
func ProductLimit(plan *models.SubscriptionPlan) (limit int, unlimited bool) {
	if plan == nil {
		return 0, false
	}
	if plan.MaxProducts == nil {
		return 0, true
	}
	return *plan.MaxProducts, false
}

// ActiveSubscription returns the seller's most-recently-ending subscription
// with is_active = true AND end_date > now, or nil if there is none. This is
// a read-time predicate: lapsed rows stay is_active in storage until the
// reconciler or the seller's next subscribe flips them, so every reader must
// go through here rather than trusting the stored flag alone.
func (s *SubscriptionService) ActiveSubscription(sellerID uuid.UUID) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.Preload("Plan").
		Where("seller_id = ? AND is_active = ? AND end_date > ?", sellerID, true, time.Now()).
		Order("end_date DESC").
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &sub, nil
}

// HasSubscriptionHistory reports whether any subscription row exists for the
// seller, lapsed or not. First-time sellers are the only ones offered the
// free tier.
func (s *SubscriptionService) HasSubscriptionHistory(sellerID uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Subscription{}).Where("seller_id = ?", sellerID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	return count > 0, nil
}

// ListPlans returns the plan catalog ordered by price. When a seller is
// given, the free tier is hidden once they have any subscription history.
func (s *SubscriptionService) ListPlans(sellerID uuid.UUID) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	if err := s.db.Order("price ASC").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch plans: %w", err)
	}

	if sellerID == uuid.Nil {
		return plans, nil
	}

	hasHistory, err := s.HasSubscriptionHistory(sellerID)
	if err != nil {
		return nil, err
	}
	if !hasHistory {
		return plans, nil
	}

	visible := plans[:0]
	for _, plan := range plans {
		if !plan.IsFree() {
			visible = append(visible, plan)
		}
	}
	return visible, nil
}

func (s *SubscriptionService) GetPlanByName(name string) (*models.SubscriptionPlan, error) {
	var plan models.SubscriptionPlan
	if err := s.db.Where("name = ?", name).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &plan, nil
}

// Subscribe activates the named plan for the seller. Deactivating the
// previous subscriptions and inserting the new row happen in one
// transaction, so a crash can never leave the seller half-switched.
func (s *SubscriptionService) Subscribe(sellerID uuid.UUID, planName string) (*models.Subscription, error) {
	plan, err := s.GetPlanByName(planName)
	if err != nil {
		return nil, err
	}

	return s.activate(sellerID, plan)
}

// SubscribeWithPayment charges the plan price through the payment processor
// before activation. Free plans skip the charge entirely.
func (s *SubscriptionService) SubscribeWithPayment(sellerID uuid.UUID, planName, paymentMethod string) (*models.Subscription, *models.Payment, error) {
	plan, err := s.GetPlanByName(planName)
	if err != nil {
		return nil, nil, err
	}

	if plan.IsFree() {
		sub, err := s.activate(sellerID, plan)
		return sub, nil, err
	}

	result, err := s.processor.Charge(&ChargeRequest{
		Amount:      plan.Price,
		Method:      paymentMethod,
		Description: fmt.Sprintf("%s subscription", plan.Name),
	})
	if err != nil {
		return nil, nil, err
	}

	sub, err := s.activate(sellerID, plan)
	if err != nil {
		// The charge went through but activation failed; surface the
		// reference so support can reconcile.
		logrus.WithFields(logrus.Fields{
			"seller_id": sellerID,
			"reference": result.Reference,
		}).Error("Subscription activation failed after successful charge")
		return nil, nil, err
	}

	now := time.Now()
	payment := &models.Payment{
		SubscriptionID: &sub.ID,
		Amount:         plan.Price,
		PaymentMethod:  paymentMethod,
		Status:         models.PaymentStatusCompleted,
		TransactionID:  result.Reference,
		ProcessedAt:    &now,
	}
	if err := s.db.Create(payment).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to record payment: %w", err)
	}

	return sub, payment, nil
}

func (s *SubscriptionService) activate(sellerID uuid.UUID, plan *models.SubscriptionPlan) (*models.Subscription, error) {
	now := time.Now()
	sub := &models.Subscription{
		SellerID:  sellerID,
		PlanID:    plan.ID,
		StartDate: now,
		EndDate:   now.AddDate(0, 0, plan.DurationDays),
		IsActive:  true,
	}

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Subscription{}).
			Where("seller_id = ? AND is_active = ?", sellerID, true).
			Update("is_active", false).Error; err != nil {
			return fmt.Errorf("failed to deactivate previous subscriptions: %w", err)
		}

		if err := tx.Create(sub).Error; err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sub.Plan = plan
	return sub, nil
}

// ReconcileLapsed flips is_active off on subscriptions whose end date has
// passed, converging the stored flag to what ActiveSubscription already
// reports. Storefront visibility does not depend on this running.
func (s *SubscriptionService) ReconcileLapsed(now time.Time) (int64, error) {
	result := s.db.Model(&models.Subscription{}).
		Where("is_active = ? AND end_date <= ?", true, now).
		Update("is_active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to reconcile lapsed subscriptions: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// StartReconciler runs ReconcileLapsed on a fixed interval until stop is
// closed.
func (s *SubscriptionService) StartReconciler(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				count, err := s.ReconcileLapsed(time.Now())
				if err != nil {
					logrus.WithError(err).Error("Subscription reconciliation failed")
					continue
				}
				if count > 0 {
					logrus.WithField("count", count).Info("Deactivated lapsed subscriptions")
				}
			}
		}
	}()
}
