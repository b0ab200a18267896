package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/filemart/filemart-backend/internal/app/service"
	apperrors "github.com/filemart/filemart-backend/internal/errors"
	"github.com/filemart/filemart-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
	storeService    service.StoreService
}

func NewCategoryController(categoryService service.CategoryService, storeService service.StoreService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
		storeService:    storeService,
	}
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// resolveStore maps the authenticated user to their store, writing the
// error response itself when that fails
func resolveStore(c *gin.Context, storeService service.StoreService) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "Authentication required")
		return 0, false
	}

	store, err := storeService.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.RespondWithError(c, http.StatusConflict, apperrors.StoreProfileMissing, "Set up your store profile first")
			return 0, false
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get store")
		return 0, false
	}

	return store.ID, true
}

// ListCategories lists the store's categories
// GET /api/v1/merchant/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	storeID, ok := resolveStore(c, ctrl.storeService)
	if !ok {
		return
	}

	categories, err := ctrl.categoryService.ListByStore(storeID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory adds a category to the store
// POST /api/v1/merchant/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	storeID, ok := resolveStore(c, ctrl.storeService)
	if !ok {
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Category name is required")
		return
	}

	category, err := ctrl.categoryService.Create(storeID, req.Name)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "create category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// UpdateCategory renames a category
// PUT /api/v1/merchant/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	storeID, ok := resolveStore(c, ctrl.storeService)
	if !ok {
		return
	}

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Category name is required")
		return
	}

	category, err := ctrl.categoryService.Update(storeID, uint(categoryID), req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		case errors.Is(err, service.ErrCategoryAccessDenied):
			apperrors.Forbidden(c, "You do not have permission to modify this category")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "update category")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DeleteCategory removes a category. Products referencing it keep
// their reference and render as uncategorized.
// DELETE /api/v1/merchant/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	storeID, ok := resolveStore(c, ctrl.storeService)
	if !ok {
		return
	}

	categoryID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
		return
	}

	if err := ctrl.categoryService.Delete(storeID, uint(categoryID)); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
		case errors.Is(err, service.ErrCategoryAccessDenied):
			apperrors.Forbidden(c, "You do not have permission to modify this category")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete category")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
