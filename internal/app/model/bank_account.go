package model

import (
	"time"

	"gorm.io/gorm"
)

// BankAccount is a payout destination owned by one store
type BankAccount struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	StoreID       uint           `gorm:"index;not null" json:"store_id"`
	Store         Store          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	BankName      string         `gorm:"not null" json:"bank_name"`
	AccountNumber string         `gorm:"not null" json:"account_number"`
	AccountOwner  string         `gorm:"not null" json:"account_owner"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (BankAccount) TableName() string {
	return "bank_accounts"
}
