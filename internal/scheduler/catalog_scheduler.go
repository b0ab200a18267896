package scheduler

import (
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/filemart/filemart-backend/internal/app/model"
	"github.com/filemart/filemart-backend/pkg/logger"
)

// CatalogScheduler runs the nightly catalog reconciliation report. It
// only reports: products whose image links disagree with their primary
// image, and products referencing deleted categories. Nothing is
// repaired automatically.
type CatalogScheduler struct {
	cron *cron.Cron
	db   *gorm.DB
}

func NewCatalogScheduler(db *gorm.DB) *CatalogScheduler {
	return &CatalogScheduler{
		cron: cron.New(),
		db:   db,
	}
}

// Start schedules the reconciliation run for 03:00 every night
func (s *CatalogScheduler) Start() error {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		logger.Info("Starting scheduled catalog reconciliation", nil)
		s.RunReconciliation()
	})

	if err != nil {
		logger.Error("Failed to add cron job for catalog reconciliation", err)
		return err
	}

	s.cron.Start()
	logger.Info("Catalog scheduler started successfully (daily at 3:00 AM)", nil)

	return nil
}

// Stop halts the scheduler
func (s *CatalogScheduler) Stop() {
	logger.Info("Stopping catalog scheduler...", nil)
	s.cron.Stop()
	logger.Info("Catalog scheduler stopped", nil)
}

// RunReconciliation scans the catalog and logs inconsistencies
func (s *CatalogScheduler) RunReconciliation() {
	missingPrimary := s.reportMissingPrimaryImages()
	orphaned := s.reportOrphanedCategoryRefs()

	logger.Info("Catalog reconciliation completed", map[string]interface{}{
		"products_missing_primary_image": missingPrimary,
		"products_with_orphaned_category": orphaned,
	})
}

// reportMissingPrimaryImages finds products that have linked images
// but no primary image URL, which happens when the primary backfill
// failed after an upload
func (s *CatalogScheduler) reportMissingPrimaryImages() int {
	var products []model.Product
	err := s.db.
		Where("image_url = ''").
		Where("id IN (?)", s.db.Model(&model.ProductImage{}).Select("product_id")).
		Find(&products).Error
	if err != nil {
		logger.Error("Reconciliation image scan failed", err)
		return 0
	}

	for _, p := range products {
		logger.Warn("Product has linked images but no primary image", map[string]interface{}{
			"product_id": p.ID,
			"store_id":   p.StoreID,
			"name":       p.Name,
		})
	}
	return len(products)
}

// reportOrphanedCategoryRefs finds products pointing at deleted
// categories. Category deletion intentionally leaves these references
// behind; the report gives operators visibility.
func (s *CatalogScheduler) reportOrphanedCategoryRefs() int {
	var products []model.Product
	err := s.db.
		Where("category_id IS NOT NULL").
		Where("category_id NOT IN (?)", s.db.Model(&model.Category{}).Select("id")).
		Find(&products).Error
	if err != nil {
		logger.Error("Reconciliation category scan failed", err)
		return 0
	}

	for _, p := range products {
		logger.Warn("Product references a deleted category", map[string]interface{}{
			"product_id":  p.ID,
			"store_id":    p.StoreID,
			"category_id": p.CategoryID,
		})
	}
	return len(products)
}
