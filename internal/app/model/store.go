package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Store is the merchant-facing tenant: every catalog entity hangs off
// exactly one store, and every user owns at most one store.
type Store struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	UserID      uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	User        User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"owner,omitempty"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"uniqueIndex" json:"slug"` // URL identifier for the public storefront
	Description string         `gorm:"type:text" json:"description"`
	PhoneNumber string         `gorm:"type:varchar(30)" json:"phone_number"`
	Address     string         `gorm:"type:text" json:"address"`
	LogoURL     string         `json:"logo_url"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}

// generateSlug builds a URL slug from the store name
func generateSlug(name string) string {
	slug := strings.ToLower(name)

	// keep letters, digits and hyphens only
	reg := regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slug = reg.ReplaceAllString(slug, "-")

	reg = regexp.MustCompile(`-+`)
	slug = reg.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}

// BeforeCreate assigns a unique slug when none was provided
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.Slug != "" {
		return nil
	}

	baseSlug := generateSlug(s.Name)
	slug := baseSlug

	counter := 1
	for {
		var count int64
		if err := tx.Model(&Store{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			break
		}
		counter++
		slug = fmt.Sprintf("%s-%d", baseSlug, counter)
	}

	s.Slug = slug
	return nil
}
