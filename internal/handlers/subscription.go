// internal/handlers/subscription.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pazarly/pazar-backend/internal/i18n"
	"github.com/pazarly/pazar-backend/internal/services"
	"github.com/pazarly/pazar-backend/internal/utils"
)

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
}

type subscribeRequest struct {
	PlanName string `json:"plan_name" validate:"required"`
}

type subscriptionPaymentRequest struct {
	PlanName      string               `json:"plan_name" validate:"required"`
	PaymentMethod string               `json:"payment_method" validate:"required"`
	CardDetails   services.CardDetails `json:"card_details" validate:"required"`
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{
		subscriptionService: subscriptionService,
	}
}

// GET /seller/subscription/plans
func (h *SubscriptionHandler) ListPlans(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	plans, err := h.subscriptionService.ListPlans(sellerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"plans": plans,
	})
}

// GET /seller/subscription
func (h *SubscriptionHandler) CurrentSubscription(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	sub, err := h.subscriptionService.ActiveSubscription(sellerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if sub == nil {
		utils.NotFoundResponse(c, "subscription")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"subscription": sub,
	})
}

// POST /seller/subscribe
//
// Activates a plan directly, without a charge. Used for the free tier and
// for internally comped plans.
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	sub, err := h.subscriptionService.Subscribe(sellerID, req.PlanName)
	if err != nil {
		if errors.Is(err, services.ErrPlanNotFound) {
			utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyPlanNotFound), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":         i18n.T(lang, i18n.KeySubscriptionActivated),
		"subscription_id": sub.ID,
		"subscription":    sub,
	})
}

// POST /seller/subscription/payment
//
// Charges the plan price and activates on success. Card details are only
// shape-checked here; the gateway never sees them.
func (h *SubscriptionHandler) SubscribeWithPayment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req subscriptionPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	sub, payment, err := h.subscriptionService.SubscribeWithPayment(sellerID, req.PlanName, req.PaymentMethod)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPlanNotFound):
			utils.ErrorResponse(c, http.StatusNotFound, "NOT_FOUND", i18n.T(lang, i18n.KeyPlanNotFound), nil)
		case errors.Is(err, services.ErrPaymentFailed):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyPaymentFailed), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	resp := gin.H{
		"message":         i18n.T(lang, i18n.KeyPaymentSuccess),
		"subscription_id": sub.ID,
		"subscription":    sub,
	}
	if payment != nil {
		resp["payment"] = payment
	}

	utils.CreatedResponse(c, resp)
}
