package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/pkg/enums"
)

// SupportIssue is a message sent from the support form. UserID is set when
// the sender was signed in.
type SupportIssue struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey"`
	UserID    *uuid.UUID          `gorm:"column:user_id;type:uuid"`
	Name      string              `gorm:"type:text;not null"`
	Email     string              `gorm:"type:text;not null"`
	Issue     string              `gorm:"type:text;not null"`
	Status    enums.SupportStatus `gorm:"type:text;not null;default:'open'"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *SupportIssue) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
