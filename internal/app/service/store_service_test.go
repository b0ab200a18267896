package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/internal/app/repository"
	"github.com/filemart/filemart-backend/internal/db"
)

func setupStoreServiceTest(t *testing.T) (StoreService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	storeRepo := repository.NewStoreRepository(testDB)
	return NewStoreService(storeRepo), testDB
}

func createTestUser(t *testing.T, testDB *gorm.DB, email string) *model.User {
	user := &model.User{Email: email, PasswordHash: "x", Name: "Owner", Role: model.RoleMerchant}
	require.NoError(t, testDB.Create(user).Error)
	return user
}

func TestStoreService_Create(t *testing.T) {
	storeService, testDB := setupStoreServiceTest(t)
	user := createTestUser(t, testDB, "owner@example.com")

	store, err := storeService.Create(user.ID, StoreInput{
		Name:        "Blue Ceramics",
		Description: "Handmade pottery",
		PhoneNumber: "010-1234-5678",
	})
	require.NoError(t, err)
	assert.NotZero(t, store.ID)
	assert.Equal(t, "blue-ceramics", store.Slug)

	// One store per user
	_, err = storeService.Create(user.ID, StoreInput{Name: "Second"})
	assert.ErrorIs(t, err, ErrStoreAlreadyOwned)
}

func TestStoreService_GetByUserID(t *testing.T) {
	storeService, testDB := setupStoreServiceTest(t)
	user := createTestUser(t, testDB, "owner@example.com")

	_, err := storeService.GetByUserID(user.ID)
	assert.ErrorIs(t, err, ErrStoreNotFound)

	created, err := storeService.Create(user.ID, StoreInput{Name: "Blue Ceramics"})
	require.NoError(t, err)

	found, err := storeService.GetByUserID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestStoreService_GetBySlug(t *testing.T) {
	storeService, testDB := setupStoreServiceTest(t)
	user := createTestUser(t, testDB, "owner@example.com")

	created, err := storeService.Create(user.ID, StoreInput{Name: "Blue Ceramics"})
	require.NoError(t, err)

	found, err := storeService.GetBySlug(created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = storeService.GetBySlug("missing")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestStoreService_Update(t *testing.T) {
	storeService, testDB := setupStoreServiceTest(t)
	user := createTestUser(t, testDB, "owner@example.com")

	_, err := storeService.Update(user.ID, StoreInput{Name: "Anything"})
	assert.ErrorIs(t, err, ErrStoreNotFound)

	created, err := storeService.Create(user.ID, StoreInput{Name: "Blue Ceramics", Description: "Old"})
	require.NoError(t, err)

	updated, err := storeService.Update(user.ID, StoreInput{
		Name:        "Blue Ceramics Studio",
		Description: "New description",
		Address:     "12 Kiln Street",
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Blue Ceramics Studio", updated.Name)
	assert.Equal(t, "New description", updated.Description)
	assert.Equal(t, "12 Kiln Street", updated.Address)

	// Slug is stable across renames
	assert.Equal(t, created.Slug, updated.Slug)
}
