// internal/handlers/return.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pazarly/pazar-backend/internal/i18n"
	"github.com/pazarly/pazar-backend/internal/services"
	"github.com/pazarly/pazar-backend/internal/utils"
)

type ReturnHandler struct {
	returnService *services.ReturnService
}

func NewReturnHandler(returnService *services.ReturnService) *ReturnHandler {
	return &ReturnHandler{
		returnService: returnService,
	}
}

// POST /returns
func (h *ReturnHandler) CreateReturn(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	ret, err := h.returnService.CreateReturn(userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderItemNotFound):
			utils.NotFoundResponse(c, "order")
		case errors.Is(err, services.ErrReturnNotDelivered):
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyReturnNotDelivered), nil)
		case errors.Is(err, services.ErrReturnExists):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyReturnAlreadyRequested))
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"return": ret,
	})
}

// GET /returns
func (h *ReturnHandler) ListReturns(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	returns, total, err := h.returnService.CustomerReturns(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(returns, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /seller/returns
func (h *ReturnHandler) SellerReturns(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	returns, total, err := h.returnService.SellerReturns(sellerID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(returns, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /seller/returns/:id
func (h *ReturnHandler) ResolveReturn(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid return ID", nil)
		return
	}

	var req services.ResolveReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	ret, err := h.returnService.ResolveReturn(sellerID, returnID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReturnNotFound):
			utils.NotFoundResponse(c, "return")
		case errors.Is(err, services.ErrReturnResolved):
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyReturnResolved))
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"return": ret,
	})
}
