// internal/handlers/store.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/pazarly/pazar-backend/internal/i18n"
	"github.com/pazarly/pazar-backend/internal/services"
	"github.com/pazarly/pazar-backend/internal/utils"
)

type StoreHandler struct {
	storeService   *services.StoreService
	storageService *services.StorageService
}

func NewStoreHandler(storeService *services.StoreService, storageService *services.StorageService) *StoreHandler {
	return &StoreHandler{
		storeService:   storeService,
		storageService: storageService,
	}
}

// POST /seller/store
func (h *StoreHandler) CreateStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	store, err := h.storeService.CreateStore(sellerID, &req)
	if err != nil {
		if errors.Is(err, services.ErrStoreExists) {
			utils.ConflictResponse(c, i18n.T(lang, i18n.KeyStoreExists))
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, gin.H{
		"store": store,
	})
}

// PUT /seller/store
func (h *StoreHandler) UpdateStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	store, err := h.storeService.UpdateStore(sellerID, &req)
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			utils.NotFoundResponse(c, "store")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"store": store,
	})
}

// GET /seller/store
func (h *StoreHandler) MyStore(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	store, err := h.storeService.MyStore(sellerID)
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			utils.NotFoundResponse(c, "store")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"store": store,
	})
}

// GET /seller/dashboard
func (h *StoreHandler) Dashboard(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.storeService.Dashboard(sellerID)
	if err != nil {
		if errors.Is(err, services.ErrStoreNotFound) {
			utils.NotFoundResponse(c, "store")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

// POST /seller/store/logo
func (h *StoreHandler) UploadLogo(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		return
	}

	if _, err := h.storeService.MyStore(sellerID); err != nil {
		utils.NotFoundResponse(c, "store")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "No file provided", nil)
		return
	}
	defer file.Close()

	if err := h.storageService.ValidateImage(file); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	options := h.storageService.GetDefaultUploadOptions("store-logos")
	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	logoURL := result.URL
	store, err := h.storeService.UpdateStore(sellerID, &services.UpdateStoreRequest{LogoURL: &logoURL})
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"store":  store,
		"upload": result,
	})
}
