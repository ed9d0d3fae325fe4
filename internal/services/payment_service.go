// internal/services/payment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/pazarly/pazar-backend/internal/config"
	"github.com/pazarly/pazar-backend/internal/utils"
)

var ErrPaymentFailed = errors.New("payment failed")

// CardDetails is the card shape legacy clients submit. The values are only
// ever shape-validated; raw card data is never forwarded to the gateway.
type CardDetails struct {
	Number string `json:"number" validate:"required,min=16"`
	Name   string `json:"name" validate:"required,min=2"`
	Expiry string `json:"expiry" validate:"required,card_expiry"`
	CVV    string `json:"cvv" validate:"required,min=3"`
}

type ChargeRequest struct {
	Amount      float64
	Method      string
	Description string
}

type ChargeResult struct {
	Reference string
	Status    string
}

// PaymentProcessor charges a customer synchronously. The production
// implementation is Stripe; tests substitute a fake.
type PaymentProcessor interface {
	Charge(req *ChargeRequest) (*ChargeResult, error)
}

type PaymentService struct {
	cfg *config.Config
}

func NewPaymentService(cfg *config.Config) *PaymentService {
	// Initialize Stripe
	stripe.Key = cfg.Payment.StripeSecretKey

	return &PaymentService{cfg: cfg}
}

// amountInSubunits converts a major-unit amount to the smallest currency
// unit Stripe expects. Going through decimal avoids the float truncation
// that turns 19.99 into 1998.
func amountInSubunits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (s *PaymentService) Charge(req *ChargeRequest) (*ChargeResult, error) {
	if s.cfg.Payment.StripeSecretKey == "" {
		// No gateway configured: local development only. A reference is
		// issued so downstream records stay consistent.
		reference, err := utils.GeneratePaymentReference()
		if err != nil {
			return nil, fmt.Errorf("failed to generate payment reference: %w", err)
		}
		logrus.WithField("reference", reference).Warn("Stripe not configured, recording uncharged payment")
		return &ChargeResult{Reference: reference, Status: "succeeded"}, nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountInSubunits(req.Amount)),
		Currency: stripe.String(s.cfg.Payment.Currency),
		Confirm:  stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	if req.Method != "" {
		params.AddMetadata("payment_method", req.Method)
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded, stripe.PaymentIntentStatusProcessing:
		return &ChargeResult{Reference: pi.ID, Status: string(pi.Status)}, nil
	default:
		return nil, fmt.Errorf("%w: payment intent status %s", ErrPaymentFailed, pi.Status)
	}
}
