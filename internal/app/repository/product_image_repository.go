package repository

import (
	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductImageRepository interface {
	Create(image *model.ProductImage) error
	FindByProduct(productID uint) ([]model.ProductImage, error)
	CountByProduct(productID uint) (int64, error)
	Delete(id uint) error
}

type productImageRepository struct {
	db *gorm.DB
}

func NewProductImageRepository(db *gorm.DB) ProductImageRepository {
	return &productImageRepository{db: db}
}

func (r *productImageRepository) Create(image *model.ProductImage) error {
	if err := r.db.Create(image).Error; err != nil {
		logger.Error("Failed to link product image in database", err, map[string]interface{}{
			"product_id": image.ProductID,
			"image_url":  image.ImageURL,
		})
		return err
	}

	logger.Debug("Product image linked in database", map[string]interface{}{
		"image_id":   image.ID,
		"product_id": image.ProductID,
	})
	return nil
}

func (r *productImageRepository) FindByProduct(productID uint) ([]model.ProductImage, error) {
	var images []model.ProductImage
	if err := r.db.Where("product_id = ?", productID).
		Order("position ASC, id ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *productImageRepository) CountByProduct(productID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.ProductImage{}).Where("product_id = ?", productID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *productImageRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.ProductImage{}, id).Error; err != nil {
		logger.Error("Failed to delete product image from database", err, map[string]interface{}{
			"image_id": id,
		})
		return err
	}
	return nil
}
