package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/filemart/filemart-backend/internal/app/service"
	apperrors "github.com/filemart/filemart-backend/internal/errors"
	"github.com/filemart/filemart-backend/internal/middleware"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{storeService: storeService}
}

type StoreRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	LogoURL     string `json:"logo_url"` // S3 URL from the upload API
}

// GetMyStore returns the authenticated merchant's store profile
// GET /api/v1/merchant/store
func (ctrl *StoreController) GetMyStore(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	store, err := ctrl.storeService.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.RespondWithError(c, http.StatusNotFound, apperrors.StoreProfileMissing, "Set up your store profile first")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get store")
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}

// CreateStore sets up the store profile during onboarding
// POST /api/v1/merchant/store
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The submitted information is not valid")
		return
	}

	store, err := ctrl.storeService.Create(userID, service.StoreInput{
		Name:        req.Name,
		Description: req.Description,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrStoreAlreadyOwned) {
			apperrors.Conflict(c, apperrors.StoreAlreadyOwned, "This account already owns a store")
			return
		}
		log.Error("Failed to create store", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create store")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"store": store})
}

// UpdateStore updates the store profile
// PUT /api/v1/merchant/store
func (ctrl *StoreController) UpdateStore(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return
	}

	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The submitted information is not valid")
		return
	}

	store, err := ctrl.storeService.Update(userID, service.StoreInput{
		Name:        req.Name,
		Description: req.Description,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		LogoURL:     req.LogoURL,
	})
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.RespondWithError(c, http.StatusNotFound, apperrors.StoreProfileMissing, "Set up your store profile first")
			return
		}
		log.Error("Failed to update store", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update store")
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}

// GetStoreBySlug returns a public storefront profile
// GET /api/v1/stores/:slug
func (ctrl *StoreController) GetStoreBySlug(c *gin.Context) {
	slug := c.Param("slug")

	store, err := ctrl.storeService.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get store")
		return
	}

	c.JSON(http.StatusOK, gin.H{"store": store})
}
