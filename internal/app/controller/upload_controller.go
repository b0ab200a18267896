package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/filemart/filemart-backend/internal/errors"
	"github.com/filemart/filemart-backend/internal/middleware"
	"github.com/filemart/filemart-backend/internal/storage"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(s3 *storage.S3Storage) *UploadController {
	return &UploadController{storage: s3}
}

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Folder      string `json:"folder"` // Optional: defaults to "uploads"
}

// GeneratePresignedURL generates a presigned PUT URL for direct client
// uploads (store logos and similar assets; product images go through
// the save endpoint)
// POST /api/v1/merchant/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Filename and content type are required")
		return
	}

	if err := storage.ValidateContentType(req.ContentType, allowedImageTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = "uploads"
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to generate an upload URL")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"filename": req.Filename,
		"folder":   folder,
		"key":      response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}
