package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/pkg/enums"
)

// User is a login identity. Customers and admins share the table.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Email        string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Name         string         `gorm:"type:text;not null"`
	Phone        *string        `gorm:"type:text"`
	Role         enums.UserRole `gorm:"type:text;not null;default:'customer'"`
	IsActive     bool           `gorm:"column:is_active;not null"`
	CreditCents  int64          `gorm:"column:credit_cents;not null;default:0"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	ensureID(&u.ID)
	return nil
}
