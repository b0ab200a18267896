package repository

import (
	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	FindByID(id uint) (*model.Store, error)
	FindByUserID(userID uint) (*model.Store, error)
	FindBySlug(slug string) (*model.Store, error)
	Update(store *model.Store) error
	BulkCreate(stores []model.Store, batchSize int) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":    store.Name,
		"user_id": store.UserID,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name":    store.Name,
			"user_id": store.UserID,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"slug":     store.Slug,
	})
	return nil
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// FindByUserID resolves the store owned by a user. Every save
// re-resolves through here; nothing is cached.
func (r *storeRepository) FindByUserID(userID uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("user_id = ?", userID).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindBySlug(slug string) (*model.Store, error) {
	var store model.Store
	if err := r.db.Where("slug = ?", slug).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) Update(store *model.Store) error {
	if err := r.db.Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return err
	}

	logger.Debug("Store updated in database", map[string]interface{}{
		"store_id": store.ID,
	})
	return nil
}

// BulkCreate inserts stores in batches, used by import tooling
func (r *storeRepository) BulkCreate(stores []model.Store, batchSize int) error {
	if err := r.db.CreateInBatches(stores, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create stores", err, map[string]interface{}{
			"count": len(stores),
		})
		return err
	}
	return nil
}
