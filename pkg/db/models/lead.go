package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/pkg/enums"
)

// Lead is a prospect captured from the landing page or the service-area check.
type Lead struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name      *string          `gorm:"type:text"`
	Email     string           `gorm:"type:text;not null"`
	Phone     *string          `gorm:"type:text"`
	ZipCode   *string          `gorm:"column:zip_code;type:text"`
	Source    string           `gorm:"type:text;not null;default:'website'"`
	Status    enums.LeadStatus `gorm:"type:text;not null;default:'new'"`
	Converted bool             `gorm:"not null;default:false"`
	Notes     *string          `gorm:"type:text"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *Lead) BeforeCreate(*gorm.DB) error {
	ensureID(&l.ID)
	return nil
}
