package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer is the buyer profile. UserID stays nil for guest checkouts that
// never finished account setup.
type Customer struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    *uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	Name      string     `gorm:"type:text;not null"`
	Email     string     `gorm:"type:text;not null;index"`
	Phone     *string    `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Orders []Order `gorm:"foreignKey:CustomerID"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
