package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ProductStatus string

const (
	StatusPublished ProductStatus = "published"
	StatusDraft     ProductStatus = "draft"
	StatusDisabled  ProductStatus = "disabled"
)

type StockStatus string

const (
	StockInStock    StockStatus = "in_stock"
	StockOutOfStock StockStatus = "out_of_stock"
)

// WeightUnits lists the accepted physical units for a product
var WeightUnits = []string{"g", "kg", "ml", "l", "pcs"}

// IsValidWeightUnit reports whether unit is one of WeightUnits
func IsValidWeightUnit(unit string) bool {
	for _, u := range WeightUnits {
		if u == unit {
			return true
		}
	}
	return false
}

// StringArray stores a string slice as a JSON column so it works on
// both PostgreSQL and the SQLite test database
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, strOK := value.(string); strOK {
			bytes = []byte(str)
		} else {
			return errors.New("failed to scan StringArray")
		}
	}

	return json.Unmarshal(bytes, s)
}

// StringMap stores free-form key/value attributes as a JSON column,
// same scheme as StringArray
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if str, strOK := value.(string); strOK {
			bytes = []byte(str)
		} else {
			return errors.New("failed to scan StringMap")
		}
	}

	return json.Unmarshal(bytes, m)
}

type Product struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	StoreID     uint      `gorm:"index;not null" json:"store_id"`
	Store       Store     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CategoryID  *uint     `gorm:"index" json:"category_id"` // nil means uncategorized
	Category    *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`

	Status ProductStatus `gorm:"type:varchar(20);default:'published'" json:"status"`
	SKU    string        `gorm:"index;not null" json:"sku"` // human-facing code, weakly unique
	Tags   StringArray   `gorm:"type:text" json:"tags"`

	// Prices are stored as raw numeric values; thousands separators are
	// a display concern
	Price           float64  `gorm:"not null" json:"price"`
	CompareAtPrice  *float64 `json:"compare_at_price"`
	DiscountedPrice *float64 `json:"discounted_price"`

	Weight     *float64 `json:"weight"`
	WeightUnit string   `gorm:"type:varchar(10)" json:"weight_unit"`

	// StockQuantity is nil when inventory tracking is off
	StockQuantity *int        `json:"stock_quantity"`
	StockStatus   StockStatus `gorm:"type:varchar(20);default:'in_stock'" json:"stock_status"`

	Attributes StringMap `gorm:"type:text" json:"attributes"`

	ImageURL string         `json:"image_url"` // primary preview image
	Images   []ProductImage `gorm:"foreignKey:ProductID" json:"images,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// TracksInventory reports whether the product carries a stock count
func (p *Product) TracksInventory() bool {
	return p.StockQuantity != nil
}
