package repository

import (
	"fmt"

	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductSort string

const (
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortPrice     ProductSort = "price"
	ProductSortName      ProductSort = "name"
)

// ProductFilter narrows product listings. StoreID is the per-row
// ownership filter; merchant-scoped callers must always set it.
type ProductFilter struct {
	StoreID       *uint
	CategoryID    *uint
	Status        *model.ProductStatus
	Search        string
	SortBy        ProductSort
	SortAscending bool
	Limit         int
	Offset        int
	IncludeImages bool
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
	CountByStore(storeID uint) (int64, error)
	BulkCreate(products []model.Product, batchSize int) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":     product.Name,
		"sku":      product.SKU,
		"store_id": product.StoreID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":     product.Name,
			"store_id": product.StoreID,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

func (r *productRepository) baseQuery(includeImages bool) *gorm.DB {
	query := r.db.Model(&model.Product{}).
		Preload("Category")
	if includeImages {
		query = query.Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_images.position ASC, product_images.id ASC")
		})
	}
	return query
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"store_id":    filter.StoreID,
		"category_id": filter.CategoryID,
		"status":      filter.Status,
		"search":      filter.Search,
		"sort_by":     filter.SortBy,
		"limit":       filter.Limit,
		"offset":      filter.Offset,
	})

	query := r.baseQuery(filter.IncludeImages)

	if filter.StoreID != nil {
		query = query.Where("products.store_id = ?", *filter.StoreID)
	}
	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.Status != nil {
		query = query.Where("products.status = ?", *filter.Status)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.name LIKE ? OR products.sku LIKE ?", like, like)
	}

	direction := "DESC"
	if filter.SortAscending {
		direction = "ASC"
	}
	switch filter.SortBy {
	case ProductSortPrice:
		query = query.Order("products.price " + direction)
	case ProductSortName:
		query = query.Order("products.name " + direction)
	case ProductSortCreatedAt:
		fallthrough
	default:
		query = query.Order("products.created_at " + direction)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"store_id": filter.StoreID,
			"search":   filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.baseQuery(true).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Update overwrites the full record by id. The write is a single
// atomic upsert at the storage layer; no partial record survives a
// failure.
func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}

	logger.Debug("Product updated in database", map[string]interface{}{
		"product_id": product.ID,
	})
	return nil
}

func (r *productRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Debug("Product deleted from database", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func (r *productRepository) CountByStore(storeID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Where("store_id = ?", storeID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// BulkCreate inserts products in batches, used by the XLSX importer
func (r *productRepository) BulkCreate(products []model.Product, batchSize int) error {
	if err := r.db.CreateInBatches(products, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create products", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}
	return nil
}
