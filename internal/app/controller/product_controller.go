package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/filemart/filemart-backend/internal/app/catalog"
	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/internal/app/repository"
	"github.com/filemart/filemart-backend/internal/app/service"
	apperrors "github.com/filemart/filemart-backend/internal/errors"
	"github.com/filemart/filemart-backend/internal/middleware"
	"github.com/filemart/filemart-backend/internal/storage"
)

const (
	maxImageSize      = 10 * 1024 * 1024 // 10MB per file
	defaultPageSize   = 20
	maxPageSize       = 100
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var allowedImageTypes = []string{
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"image/webp",
}

type ProductController struct {
	productService service.ProductService
	storeService   service.StoreService

	// save protocol collaborators
	userRepo    repository.UserRepository
	storeRepo   repository.StoreRepository
	productRepo repository.ProductRepository
	imageRepo   repository.ProductImageRepository
	storage     storage.ObjectStorage
	events      catalog.EventPublisher
}

func NewProductController(
	productService service.ProductService,
	storeService service.StoreService,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	productRepo repository.ProductRepository,
	imageRepo repository.ProductImageRepository,
	store storage.ObjectStorage,
	events catalog.EventPublisher,
) *ProductController {
	return &ProductController{
		productService: productService,
		storeService:   storeService,
		userRepo:       userRepo,
		storeRepo:      storeRepo,
		productRepo:    productRepo,
		imageRepo:      imageRepo,
		storage:        store,
		events:         events,
	}
}

// SaveProduct creates or updates a product through the save protocol.
// The request is multipart: a `payload` JSON part with the draft and
// up to eight `images` file parts. A plain JSON body works too when no
// images are attached.
// POST /api/v1/merchant/products
func (ctrl *ProductController) SaveProduct(c *gin.Context) {
	ctrl.runSave(c, 0)
}

// UpdateProduct edits an existing product through the same protocol,
// with the target taken from the path instead of the payload
// PUT /api/v1/merchant/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}
	ctrl.runSave(c, uint(productID))
}

func (ctrl *ProductController) runSave(c *gin.Context, forcedID uint) {
	log := middleware.GetLoggerFromContext(c)
	userID, _ := middleware.GetUserID(c)

	draft, staged, ok := ctrl.parseSaveRequest(c)
	if !ok {
		return
	}
	defer staged.Release()

	if forcedID != 0 {
		draft.ID = forcedID
	}

	saver := catalog.NewSaver(
		ctrl.userRepo,
		ctrl.storeRepo,
		ctrl.productRepo,
		ctrl.imageRepo,
		ctrl.storage,
		ctrl.events,
	)

	creating := draft.ID == 0
	result, err := saver.Save(c.Request.Context(), userID, draft, staged)
	if err != nil {
		ctrl.respondSaveError(c, err)
		return
	}

	log.Info("Product save completed", map[string]interface{}{
		"product_id": result.Product.ID,
		"uploaded":   len(result.UploadedURLs),
		"failed":     len(result.Failures),
	})

	status := http.StatusOK
	if creating {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"product":        result.Product,
		"uploaded_urls":  result.UploadedURLs,
		"failed_uploads": len(result.Failures),
	})
}

func (ctrl *ProductController) parseSaveRequest(c *gin.Context) (*catalog.ProductDraft, *catalog.StagingBuffer, bool) {
	log := middleware.GetLoggerFromContext(c)
	staged := catalog.NewStagingBuffer()
	draft := catalog.NewDraft()

	form, err := c.MultipartForm()
	if err != nil {
		// fall back to a plain JSON body without images
		if err := c.ShouldBindJSON(draft); err != nil {
			log.Warn("Invalid product payload", map[string]interface{}{
				"error": err.Error(),
			})
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The submitted product data is not valid")
			return nil, nil, false
		}
		return draft, staged, true
	}

	payloads := form.Value["payload"]
	if len(payloads) == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Missing product payload")
		return nil, nil, false
	}
	if err := json.Unmarshal([]byte(payloads[0]), draft); err != nil {
		log.Warn("Invalid product payload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "The submitted product data is not valid")
		return nil, nil, false
	}

	for _, fileHeader := range form.File["images"] {
		if err := storage.ValidateFileSize(fileHeader.Size, maxImageSize); err != nil {
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "Each image must be 10MB or smaller")
			return nil, nil, false
		}
		contentType := fileHeader.Header.Get("Content-Type")
		if err := storage.ValidateContentType(contentType, allowedImageTypes); err != nil {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
			return nil, nil, false
		}

		file, err := fileHeader.Open()
		if err != nil {
			log.Error("Failed to open uploaded file", err, map[string]interface{}{
				"file": fileHeader.Filename,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to read an uploaded file")
			return nil, nil, false
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to read an uploaded file")
			return nil, nil, false
		}

		staged.AddFiles(catalog.StagedFile{
			Name:        fileHeader.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	return draft, staged, true
}

func (ctrl *ProductController) respondSaveError(c *gin.Context, err error) {
	log := middleware.GetLoggerFromContext(c)

	var validationErr *catalog.ValidationError
	switch {
	case errors.Is(err, catalog.ErrUnauthenticated):
		apperrors.Unauthorized(c, "Authentication required")
	case errors.Is(err, catalog.ErrStoreProfileMissing):
		apperrors.RespondWithError(c, http.StatusConflict, apperrors.StoreProfileMissing, "Set up your store profile first")
	case errors.As(err, &validationErr):
		apperrors.RespondWithValidationError(c, validationErr.Fields, validationErr.Tab)
	case errors.Is(err, catalog.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
	case errors.Is(err, catalog.ErrProductAccessDenied):
		apperrors.Forbidden(c, "You do not have permission to modify this product")
	default:
		log.Error("Product save failed", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.ProductSaveFailed, "Failed to save the product. Please try again later")
	}
}

// ListProducts lists the merchant's products with filters
// GET /api/v1/merchant/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	storeID, ok := resolveStore(c, ctrl.storeService)
	if !ok {
		return
	}

	opts, ok := parseListOptions(c)
	if !ok {
		return
	}

	products, err := ctrl.productService.ListByStore(storeID, opts)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	total, err := ctrl.productService.CountByStore(storeID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "count products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
		"total":    total,
	})
}

func parseListOptions(c *gin.Context) (service.ProductListOptions, bool) {
	opts := service.ProductListOptions{
		Search: c.Query("search"),
		Limit:  defaultPageSize,
	}

	if v := c.Query("category_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid category ID")
			return opts, false
		}
		categoryID := uint(id)
		opts.CategoryID = &categoryID
	}

	if v := c.Query("status"); v != "" {
		status := model.ProductStatus(v)
		switch status {
		case model.StatusPublished, model.StatusDraft, model.StatusDisabled:
			opts.Status = &status
		default:
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid product status")
			return opts, false
		}
	}

	switch c.Query("sort_by") {
	case "price":
		opts.SortBy = repository.ProductSortPrice
	case "name":
		opts.SortBy = repository.ProductSortName
	default:
		opts.SortBy = repository.ProductSortCreatedAt
	}
	opts.SortAscending = c.Query("order") == "asc"

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid limit")
			return opts, false
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
		opts.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Invalid offset")
			return opts, false
		}
		opts.Offset = offset
	}

	return opts, true
}

// GetProduct returns one product with its images
// GET /api/v1/merchant/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	storeID, ok := resolveStore(c, ctrl.storeService)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	product, err := ctrl.productService.GetByID(storeID, uint(productID))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrProductAccessDenied):
			apperrors.Forbidden(c, "You do not have permission to view this product")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get product")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DeleteProduct removes a product
// DELETE /api/v1/merchant/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	storeID, ok := resolveStore(c, ctrl.storeService)
	if !ok {
		return
	}

	productID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid product ID")
		return
	}

	if err := ctrl.productService.Delete(storeID, uint(productID)); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrProductAccessDenied):
			apperrors.Forbidden(c, "You do not have permission to delete this product")
		default:
			apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "delete product")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// ExportProducts streams the full catalog as an XLSX download
// GET /api/v1/merchant/products/export
func (ctrl *ProductController) ExportProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	storeID, ok := resolveStore(c, ctrl.storeService)
	if !ok {
		return
	}

	f, err := ctrl.productService.ExportXLSX(storeID)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "export products")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("products-%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Type", exportContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := f.Write(c.Writer); err != nil {
		log.Error("Failed to stream XLSX export", err, map[string]interface{}{
			"store_id": storeID,
		})
	}
}

// ListStoreProducts lists a store's published products for the public
// storefront
// GET /api/v1/stores/:slug/products
func (ctrl *ProductController) ListStoreProducts(c *gin.Context) {
	store, err := ctrl.storeService.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			apperrors.NotFound(c, apperrors.StoreNotFound, "Store not found")
			return
		}
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "get store")
		return
	}

	opts, ok := parseListOptions(c)
	if !ok {
		return
	}

	products, err := ctrl.productService.ListPublished(store.ID, opts)
	if err != nil {
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, "list products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"store":    store,
		"products": products,
		"count":    len(products),
	})
}
