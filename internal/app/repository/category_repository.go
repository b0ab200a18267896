package repository

import (
	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindByStore(storeID uint) ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	Update(category *model.Category) error
	Delete(id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name":     category.Name,
			"store_id": category.StoreID,
		})
		return err
	}

	logger.Debug("Category created in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return nil
}

func (r *categoryRepository) FindByStore(storeID uint) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Where("store_id = ?", storeID).Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories by store", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

// Delete removes the category only. Products keep their category_id;
// reads render the dangling reference as uncategorized.
func (r *categoryRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Category{}, id).Error; err != nil {
		logger.Error("Failed to delete category from database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}

	logger.Debug("Category deleted from database", map[string]interface{}{
		"category_id": id,
	})
	return nil
}
