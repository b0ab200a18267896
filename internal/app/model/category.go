package model

import (
	"time"

	"gorm.io/gorm"
)

// Category groups products within one store. Deleting a category does
// not cascade to its products; their category reference is left behind
// and they render as uncategorized.
type Category struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	StoreID   uint           `gorm:"index;not null" json:"store_id"`
	Store     Store          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Category) TableName() string {
	return "categories"
}
