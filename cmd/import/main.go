package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/filemart/filemart-backend/config"
	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/internal/app/repository"
	"github.com/filemart/filemart-backend/internal/db"
	"github.com/filemart/filemart-backend/pkg/util"
	"github.com/xuri/excelize/v2"
)

// Column layout matches the export produced by the back office:
// SKU, Name, Status, Category, Price, Compare At, Discounted, Stock,
// Stock Status, Tags
const expectedColumns = 10

func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/import/main.go <store_slug> <xlsx_file_path>")
	}

	storeSlug := os.Args[1]
	filePath := os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	storeRepo := repository.NewStoreRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())

	store, err := storeRepo.FindBySlug(storeSlug)
	if err != nil {
		log.Fatalf("Store not found for slug %q: %v", storeSlug, err)
	}
	fmt.Printf("Importing into store: %s (id=%d)\n", store.Name, store.ID)

	categories, err := categoryRepo.FindByStore(store.ID)
	if err != nil {
		log.Fatal("Failed to load categories:", err)
	}
	categoryByName := make(map[string]uint, len(categories))
	for _, c := range categories {
		categoryByName[strings.ToLower(c.Name)] = c.ID
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	products, err := readProductsFromXLSX(filePath, store.ID, categoryByName)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	batchSize := 1000
	fmt.Printf("Starting bulk import with batch size: %d\n", batchSize)
	if err := productRepo.BulkCreate(products, batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(products))
}

func readProductsFromXLSX(filePath string, storeID uint, categoryByName map[string]uint) ([]model.Product, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var products []model.Product
	seenSKUs := make(map[string]bool)
	skippedCount := 0
	unknownCategoryCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < expectedColumns {
			// GetRows trims trailing empty cells; pad so the optional
			// columns read as blank
			padded := make([]string, expectedColumns)
			copy(padded, row)
			row = padded
		}

		sku := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		status := strings.TrimSpace(row[2])
		categoryName := strings.TrimSpace(row[3])
		priceStr := strings.TrimSpace(row[4])
		compareAtStr := strings.TrimSpace(row[5])
		discountedStr := strings.TrimSpace(row[6])
		stockStr := strings.TrimSpace(row[7])
		stockStatus := strings.TrimSpace(row[8])
		tagsStr := strings.TrimSpace(row[9])

		if name == "" {
			skippedCount++
			continue
		}

		price := util.ParseCurrency(priceStr)
		if price <= 0 {
			skippedCount++
			continue
		}

		if sku == "" {
			sku = util.GenerateCode("FM")
		}
		if seenSKUs[sku] {
			skippedCount++
			continue
		}
		seenSKUs[sku] = true

		product := model.Product{
			StoreID: storeID,
			Name:    name,
			SKU:     sku,
			Price:   price,
			Status:  parseStatus(status),
			Tags:    model.StringArray(util.SplitTags(tagsStr)),
		}

		if categoryName != "" {
			if id, ok := categoryByName[strings.ToLower(categoryName)]; ok {
				categoryID := id
				product.CategoryID = &categoryID
			} else {
				unknownCategoryCount++
			}
		}

		if v := util.ParseCurrency(compareAtStr); v > 0 {
			product.CompareAtPrice = &v
		}
		if v := util.ParseCurrency(discountedStr); v > 0 {
			product.DiscountedPrice = &v
		}

		if stockStr != "" {
			qty, err := strconv.Atoi(stockStr)
			if err != nil || qty < 0 {
				skippedCount++
				continue
			}
			product.StockQuantity = &qty
		}

		product.StockStatus = model.StockInStock
		if stockStatus == string(model.StockOutOfStock) {
			product.StockStatus = model.StockOutOfStock
		}

		products = append(products, product)

		if len(products)%1000 == 0 {
			fmt.Printf("Processed %d products...\n", len(products))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)
	fmt.Printf("  Rows with unknown category (imported uncategorized): %d\n", unknownCategoryCount)

	return products, nil
}

func parseStatus(raw string) model.ProductStatus {
	switch strings.ToLower(raw) {
	case string(model.StatusDraft):
		return model.StatusDraft
	case string(model.StatusDisabled):
		return model.StatusDisabled
	default:
		return model.StatusPublished
	}
}
