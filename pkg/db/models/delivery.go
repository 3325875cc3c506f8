package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/pkg/enums"
)

type Delivery struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey"`
	OrderID       *uuid.UUID           `gorm:"type:uuid;index"`
	CustomerName  string               `gorm:"column:customer_name;type:text;not null"`
	Address       string               `gorm:"type:text;not null"`
	DriverName    *string              `gorm:"column:driver_name;type:text"`
	Status        enums.DeliveryStatus `gorm:"type:text;not null;default:'scheduled'"`
	ScheduledTime *time.Time           `gorm:"column:scheduled_time"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *Delivery) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}
