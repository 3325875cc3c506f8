package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferralCode is a shareable discount owned by a customer login. The owner
// earns DiscountCents in credit when a referred friend completes an order.
type ReferralCode struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Code          string    `gorm:"type:text;not null;uniqueIndex"`
	DiscountCents int64     `gorm:"column:discount_cents;not null"`
	Description   string    `gorm:"type:text;not null"`
	TimesUsed     int       `gorm:"column:times_used;not null;default:0"`
	MaxUses       int       `gorm:"column:max_uses;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (c *ReferralCode) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
