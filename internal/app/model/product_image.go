package model

import (
	"time"
)

// ProductImage links an uploaded object-storage URL to a product. Rows
// are only written for uploads that succeeded.
type ProductImage struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	ProductID uint      `gorm:"index;not null" json:"product_id"`
	Product   Product   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	Position  int       `gorm:"default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProductImage) TableName() string {
	return "product_images"
}
