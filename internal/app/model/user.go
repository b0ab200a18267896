package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleMerchant UserRole = "merchant" // store owner, the normal account type
	RoleAdmin    UserRole = "admin"    // platform operator
)

type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Role         UserRole       `gorm:"type:varchar(20);default:'merchant'" json:"role"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Every merchant owns at most one store
	Store *Store `gorm:"foreignKey:UserID" json:"store,omitempty"`
}

func (User) TableName() string {
	return "users"
}
