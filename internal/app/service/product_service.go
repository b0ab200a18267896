package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/internal/app/repository"
	"github.com/filemart/filemart-backend/pkg/logger"
)

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrProductAccessDenied = errors.New("product belongs to another store")
)

// ProductListOptions are the dashboard listing controls
type ProductListOptions struct {
	CategoryID    *uint
	Status        *model.ProductStatus
	Search        string
	SortBy        repository.ProductSort
	SortAscending bool
	Limit         int
	Offset        int
}

type ProductService interface {
	ListByStore(storeID uint, opts ProductListOptions) ([]model.Product, error)
	ListPublished(storeID uint, opts ProductListOptions) ([]model.Product, error)
	GetByID(storeID, productID uint) (*model.Product, error)
	Delete(storeID, productID uint) error
	CountByStore(storeID uint) (int64, error)
	ExportXLSX(storeID uint) (*excelize.File, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListByStore(storeID uint, opts ProductListOptions) ([]model.Product, error) {
	return s.productRepo.FindWithFilter(repository.ProductFilter{
		StoreID:       &storeID,
		CategoryID:    opts.CategoryID,
		Status:        opts.Status,
		Search:        opts.Search,
		SortBy:        opts.SortBy,
		SortAscending: opts.SortAscending,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
		IncludeImages: true,
	})
}

// ListPublished serves the public storefront: published products only,
// regardless of what the caller asked for
func (s *productService) ListPublished(storeID uint, opts ProductListOptions) ([]model.Product, error) {
	published := model.StatusPublished
	return s.productRepo.FindWithFilter(repository.ProductFilter{
		StoreID:       &storeID,
		CategoryID:    opts.CategoryID,
		Status:        &published,
		Search:        opts.Search,
		SortBy:        opts.SortBy,
		SortAscending: opts.SortAscending,
		Limit:         opts.Limit,
		Offset:        opts.Offset,
		IncludeImages: true,
	})
}

func (s *productService) GetByID(storeID, productID uint) (*model.Product, error) {
	product, err := s.findOwned(storeID, productID)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Delete(storeID, productID uint) error {
	if _, err := s.findOwned(storeID, productID); err != nil {
		return err
	}

	if err := s.productRepo.Delete(productID); err != nil {
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": productID,
		"store_id":   storeID,
	})
	return nil
}

func (s *productService) CountByStore(storeID uint) (int64, error) {
	return s.productRepo.CountByStore(storeID)
}

// ExportXLSX writes the store's full catalog into a spreadsheet, one
// product per row
func (s *productService) ExportXLSX(storeID uint) (*excelize.File, error) {
	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		StoreID: &storeID,
	})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"SKU", "Name", "Status", "Category", "Price", "Compare At", "Discounted", "Stock", "Stock Status", "Tags"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, p := range products {
		category := ""
		if p.Category != nil {
			category = p.Category.Name
		}
		stock := ""
		if p.StockQuantity != nil {
			stock = fmt.Sprintf("%d", *p.StockQuantity)
		}

		values := []interface{}{
			p.SKU,
			p.Name,
			string(p.Status),
			category,
			p.Price,
			floatOrEmpty(p.CompareAtPrice),
			floatOrEmpty(p.DiscountedPrice),
			stock,
			string(p.StockStatus),
			strings.Join(p.Tags, ", "),
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("Catalog exported to XLSX", map[string]interface{}{
		"store_id": storeID,
		"count":    len(products),
	})
	return f, nil
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func (s *productService) findOwned(storeID, productID uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.StoreID != storeID {
		logger.Warn("Product access denied", map[string]interface{}{
			"product_id": productID,
			"store_id":   storeID,
			"owner_id":   product.StoreID,
		})
		return nil, ErrProductAccessDenied
	}
	return product, nil
}
