package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/internal/app/repository"
	"github.com/filemart/filemart-backend/pkg/logger"
)

var (
	ErrStoreNotFound     = errors.New("store not found")
	ErrStoreAlreadyOwned = errors.New("user already owns a store")
)

// StoreInput carries the editable profile fields
type StoreInput struct {
	Name        string
	Description string
	PhoneNumber string
	Address     string
	LogoURL     string
}

type StoreService interface {
	GetByUserID(userID uint) (*model.Store, error)
	GetBySlug(slug string) (*model.Store, error)
	Create(userID uint, input StoreInput) (*model.Store, error)
	Update(userID uint, input StoreInput) (*model.Store, error)
}

type storeService struct {
	storeRepo repository.StoreRepository
}

func NewStoreService(storeRepo repository.StoreRepository) StoreService {
	return &storeService{storeRepo: storeRepo}
}

func (s *storeService) GetByUserID(userID uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		logger.Error("Failed to fetch store by user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return store, nil
}

func (s *storeService) GetBySlug(slug string) (*model.Store, error) {
	store, err := s.storeRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}

// Create sets up the store profile during onboarding. Each user owns
// at most one store; a second create is rejected.
func (s *storeService) Create(userID uint, input StoreInput) (*model.Store, error) {
	existing, err := s.storeRepo.FindByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		logger.Warn("Store creation rejected: user already owns a store", map[string]interface{}{
			"user_id":  userID,
			"store_id": existing.ID,
		})
		return nil, ErrStoreAlreadyOwned
	}

	store := &model.Store{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		PhoneNumber: input.PhoneNumber,
		Address:     input.Address,
		LogoURL:     input.LogoURL,
	}

	if err := s.storeRepo.Create(store); err != nil {
		return nil, err
	}

	logger.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"user_id":  userID,
		"slug":     store.Slug,
	})
	return store, nil
}

func (s *storeService) Update(userID uint, input StoreInput) (*model.Store, error) {
	store, err := s.storeRepo.FindByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		store.Name = input.Name
	}
	store.Description = input.Description
	store.PhoneNumber = input.PhoneNumber
	store.Address = input.Address
	if input.LogoURL != "" {
		store.LogoURL = input.LogoURL
	}

	if err := s.storeRepo.Update(store); err != nil {
		return nil, err
	}

	logger.Info("Store profile updated", map[string]interface{}{
		"store_id": store.ID,
	})
	return store, nil
}
