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

func setupCategoryServiceTest(t *testing.T) (CategoryService, *gorm.DB, *model.Store, *model.Store) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	owner := createTestUser(t, testDB, "owner@example.com")
	store := &model.Store{UserID: owner.ID, Name: "Main Store"}
	require.NoError(t, testDB.Create(store).Error)

	other := createTestUser(t, testDB, "other@example.com")
	otherStore := &model.Store{UserID: other.ID, Name: "Other Store"}
	require.NoError(t, testDB.Create(otherStore).Error)

	categoryRepo := repository.NewCategoryRepository(testDB)
	return NewCategoryService(categoryRepo), testDB, store, otherStore
}

func TestCategoryService_CreateAndList(t *testing.T) {
	categoryService, _, store, otherStore := setupCategoryServiceTest(t)

	_, err := categoryService.Create(store.ID, "Mugs")
	require.NoError(t, err)
	_, err = categoryService.Create(store.ID, "Bowls")
	require.NoError(t, err)
	_, err = categoryService.Create(otherStore.ID, "Plates")
	require.NoError(t, err)

	// Listing is store scoped, sorted by name
	categories, err := categoryService.ListByStore(store.ID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Bowls", categories[0].Name)
	assert.Equal(t, "Mugs", categories[1].Name)
}

func TestCategoryService_Update(t *testing.T) {
	categoryService, _, store, otherStore := setupCategoryServiceTest(t)

	category, err := categoryService.Create(store.ID, "Mugs")
	require.NoError(t, err)

	updated, err := categoryService.Update(store.ID, category.ID, "Cups")
	require.NoError(t, err)
	assert.Equal(t, "Cups", updated.Name)

	// Another store cannot touch it
	_, err = categoryService.Update(otherStore.ID, category.ID, "Stolen")
	assert.ErrorIs(t, err, ErrCategoryAccessDenied)

	_, err = categoryService.Update(store.ID, 9999, "Missing")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryService_DeleteLeavesProducts(t *testing.T) {
	categoryService, testDB, store, otherStore := setupCategoryServiceTest(t)

	category, err := categoryService.Create(store.ID, "Mugs")
	require.NoError(t, err)

	product := &model.Product{
		StoreID:    store.ID,
		CategoryID: &category.ID,
		Name:       "Ceramic Mug",
		Price:      12500,
		SKU:        "FM-TEST01",
	}
	require.NoError(t, testDB.Create(product).Error)

	err = categoryService.Delete(otherStore.ID, category.ID)
	assert.ErrorIs(t, err, ErrCategoryAccessDenied)

	require.NoError(t, categoryService.Delete(store.ID, category.ID))

	categories, err := categoryService.ListByStore(store.ID)
	require.NoError(t, err)
	assert.Len(t, categories, 0)

	// The product row keeps its reference; no cascade
	var reloaded model.Product
	require.NoError(t, testDB.First(&reloaded, product.ID).Error)
	require.NotNil(t, reloaded.CategoryID)
	assert.Equal(t, category.ID, *reloaded.CategoryID)
}
