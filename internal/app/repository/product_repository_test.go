package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/internal/db"
)

func setupProductTest(t *testing.T) (*gorm.DB, ProductRepository, *model.Store) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	user := &model.User{Email: "owner@example.com", PasswordHash: "x", Name: "Owner", Role: model.RoleMerchant}
	require.NoError(t, testDB.Create(user).Error)
	store := &model.Store{UserID: user.ID, Name: "Blue Ceramics"}
	require.NoError(t, testDB.Create(store).Error)

	repo := NewProductRepository(testDB)
	return testDB, repo, store
}

func TestProductRepository_Create(t *testing.T) {
	testDB, repo, store := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{
		StoreID:     store.ID,
		Name:        "Ceramic Mug",
		Description: "Hand-thrown stoneware mug",
		Price:       12500,
		SKU:         "FM-ABC123",
		Status:      model.StatusPublished,
	}

	err := repo.Create(product)
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)
}

func TestProductRepository_FindWithFilter(t *testing.T) {
	testDB, repo, store := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	category := &model.Category{StoreID: store.ID, Name: "Mugs"}
	require.NoError(t, testDB.Create(category).Error)

	products := []model.Product{
		{StoreID: store.ID, CategoryID: &category.ID, Name: "Ceramic Mug", SKU: "FM-MUG001", Price: 12500, Status: model.StatusPublished},
		{StoreID: store.ID, Name: "Stoneware Plate", SKU: "FM-PLT001", Price: 18000, Status: model.StatusPublished},
		{StoreID: store.ID, Name: "Seconds Bowl", SKU: "FM-BWL001", Price: 4000, Status: model.StatusDraft},
	}
	for i := range products {
		require.NoError(t, repo.Create(&products[i]))
	}

	// Another merchant's product must never leak into a store-scoped
	// listing
	otherUser := &model.User{Email: "other@example.com", PasswordHash: "x", Name: "Other", Role: model.RoleMerchant}
	require.NoError(t, testDB.Create(otherUser).Error)
	otherStore := &model.Store{UserID: otherUser.ID, Name: "Other Store"}
	require.NoError(t, testDB.Create(otherStore).Error)
	require.NoError(t, repo.Create(&model.Product{StoreID: otherStore.ID, Name: "Foreign Mug", SKU: "FM-XXX001", Price: 9000}))

	t.Run("Filter by store", func(t *testing.T) {
		found, err := repo.FindWithFilter(ProductFilter{StoreID: &store.ID})
		assert.NoError(t, err)
		assert.Len(t, found, 3)
	})

	t.Run("Filter by category", func(t *testing.T) {
		found, err := repo.FindWithFilter(ProductFilter{StoreID: &store.ID, CategoryID: &category.ID})
		assert.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Ceramic Mug", found[0].Name)
		require.NotNil(t, found[0].Category)
		assert.Equal(t, "Mugs", found[0].Category.Name)
	})

	t.Run("Filter by status", func(t *testing.T) {
		status := model.StatusPublished
		found, err := repo.FindWithFilter(ProductFilter{StoreID: &store.ID, Status: &status})
		assert.NoError(t, err)
		assert.Len(t, found, 2)
	})

	t.Run("Search matches name and SKU", func(t *testing.T) {
		found, err := repo.FindWithFilter(ProductFilter{StoreID: &store.ID, Search: "Plate"})
		assert.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Stoneware Plate", found[0].Name)

		found, err = repo.FindWithFilter(ProductFilter{StoreID: &store.ID, Search: "FM-BWL"})
		assert.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Seconds Bowl", found[0].Name)
	})

	t.Run("Sort by price ascending", func(t *testing.T) {
		found, err := repo.FindWithFilter(ProductFilter{
			StoreID:       &store.ID,
			SortBy:        ProductSortPrice,
			SortAscending: true,
		})
		assert.NoError(t, err)
		require.Len(t, found, 3)
		assert.Equal(t, "Seconds Bowl", found[0].Name)
		assert.Equal(t, "Stoneware Plate", found[2].Name)
	})

	t.Run("Limit and offset", func(t *testing.T) {
		found, err := repo.FindWithFilter(ProductFilter{
			StoreID:       &store.ID,
			SortBy:        ProductSortName,
			SortAscending: true,
			Limit:         2,
			Offset:        1,
		})
		assert.NoError(t, err)
		require.Len(t, found, 2)
		assert.Equal(t, "Seconds Bowl", found[0].Name)
		assert.Equal(t, "Stoneware Plate", found[1].Name)
	})
}

func TestProductRepository_FindWithFilter_PreloadsImages(t *testing.T) {
	testDB, repo, store := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{StoreID: store.ID, Name: "Ceramic Mug", SKU: "FM-MUG001", Price: 12500}
	require.NoError(t, repo.Create(product))

	// Positions out of insertion order so the preload ordering is
	// actually exercised
	images := []model.ProductImage{
		{ProductID: product.ID, ImageURL: "https://cdn.test/b.png", Position: 1},
		{ProductID: product.ID, ImageURL: "https://cdn.test/a.png", Position: 0},
	}
	for i := range images {
		require.NoError(t, testDB.Create(&images[i]).Error)
	}

	found, err := repo.FindWithFilter(ProductFilter{StoreID: &store.ID, IncludeImages: true})
	assert.NoError(t, err)
	require.Len(t, found, 1)
	require.Len(t, found[0].Images, 2)
	assert.Equal(t, "https://cdn.test/a.png", found[0].Images[0].ImageURL)
	assert.Equal(t, "https://cdn.test/b.png", found[0].Images[1].ImageURL)

	// Images stay off the listing unless asked for
	found, err = repo.FindWithFilter(ProductFilter{StoreID: &store.ID})
	assert.NoError(t, err)
	require.Len(t, found, 1)
	assert.Empty(t, found[0].Images)
}

func TestProductRepository_FindByID(t *testing.T) {
	testDB, repo, store := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{StoreID: store.ID, Name: "Ceramic Mug", SKU: "FM-MUG001", Price: 12500}
	require.NoError(t, repo.Create(product))

	tests := []struct {
		name    string
		id      uint
		wantErr bool
	}{
		{
			name:    "Existing product",
			id:      product.ID,
			wantErr: false,
		},
		{
			name:    "Non-existing product",
			id:      9999,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := repo.FindByID(tt.id)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, found)
			} else {
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, product.Name, found.Name)
			}
		})
	}
}

func TestProductRepository_Update(t *testing.T) {
	testDB, repo, store := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{StoreID: store.ID, Name: "Ceramic Mug", SKU: "FM-MUG001", Price: 12500}
	require.NoError(t, repo.Create(product))

	qty := 5
	product.Price = 13000
	product.StockQuantity = &qty

	err := repo.Update(product)
	assert.NoError(t, err)

	updated, err := repo.FindByID(product.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(13000), updated.Price)
	require.NotNil(t, updated.StockQuantity)
	assert.Equal(t, 5, *updated.StockQuantity)
}

func TestProductRepository_Delete(t *testing.T) {
	testDB, repo, store := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	product := &model.Product{StoreID: store.ID, Name: "Ceramic Mug", SKU: "FM-MUG001", Price: 12500}
	require.NoError(t, repo.Create(product))

	err := repo.Delete(product.ID)
	assert.NoError(t, err)

	// Verify deletion (soft delete)
	_, err = repo.FindByID(product.ID)
	assert.Error(t, err)
}

func TestProductRepository_CountByStore(t *testing.T) {
	testDB, repo, store := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	count, err := repo.CountByStore(store.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, repo.Create(&model.Product{StoreID: store.ID, Name: "Mug", SKU: "FM-A", Price: 100}))
	require.NoError(t, repo.Create(&model.Product{StoreID: store.ID, Name: "Plate", SKU: "FM-B", Price: 200}))

	count, err = repo.CountByStore(store.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestProductRepository_BulkCreate(t *testing.T) {
	testDB, repo, store := setupProductTest(t)
	defer db.CleanupTestDB(testDB)

	products := []model.Product{
		{StoreID: store.ID, Name: "Mug", SKU: "FM-A", Price: 100},
		{StoreID: store.ID, Name: "Plate", SKU: "FM-B", Price: 200},
		{StoreID: store.ID, Name: "Bowl", SKU: "FM-C", Price: 300},
	}

	err := repo.BulkCreate(products, 2)
	assert.NoError(t, err)

	count, err := repo.CountByStore(store.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
