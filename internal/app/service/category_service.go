package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/internal/app/repository"
	"github.com/filemart/filemart-backend/pkg/logger"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryAccessDenied = errors.New("category belongs to another store")
)

type CategoryService interface {
	ListByStore(storeID uint) ([]model.Category, error)
	Create(storeID uint, name string) (*model.Category, error)
	Update(storeID, categoryID uint, name string) (*model.Category, error)
	Delete(storeID, categoryID uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) ListByStore(storeID uint) ([]model.Category, error) {
	return s.categoryRepo.FindByStore(storeID)
}

func (s *categoryService) Create(storeID uint, name string) (*model.Category, error) {
	category := &model.Category{
		StoreID: storeID,
		Name:    name,
	}

	if err := s.categoryRepo.Create(category); err != nil {
		return nil, err
	}

	logger.Info("Category created", map[string]interface{}{
		"category_id": category.ID,
		"store_id":    storeID,
	})
	return category, nil
}

func (s *categoryService) Update(storeID, categoryID uint, name string) (*model.Category, error) {
	category, err := s.findOwned(storeID, categoryID)
	if err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes the category. Products referencing it are left
// untouched; they show up as uncategorized afterwards.
func (s *categoryService) Delete(storeID, categoryID uint) error {
	if _, err := s.findOwned(storeID, categoryID); err != nil {
		return err
	}

	if err := s.categoryRepo.Delete(categoryID); err != nil {
		return err
	}

	logger.Info("Category deleted", map[string]interface{}{
		"category_id": categoryID,
		"store_id":    storeID,
	})
	return nil
}

func (s *categoryService) findOwned(storeID, categoryID uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if category.StoreID != storeID {
		logger.Warn("Category access denied", map[string]interface{}{
			"category_id": categoryID,
			"store_id":    storeID,
			"owner_id":    category.StoreID,
		})
		return nil, ErrCategoryAccessDenied
	}
	return category, nil
}
