package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/pkg/enums"
)

// Order is a paid laundry order. Contact and address fields are a snapshot of
// the checkout draft, independent of later customer profile edits.
type Order struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey"`
	CustomerID       *uuid.UUID        `gorm:"type:uuid;index"`
	Status           enums.OrderStatus `gorm:"type:text;not null;default:'pending'"`
	TotalAmountCents int64             `gorm:"column:total_amount_cents;not null"`

	ContactName  string `gorm:"column:contact_name;type:text;not null"`
	ContactEmail string `gorm:"column:contact_email;type:text;not null"`
	ContactPhone string `gorm:"column:contact_phone;type:text;not null"`

	WeightBracket    enums.WeightBracket    `gorm:"column:weight_bracket;type:text;not null"`
	ServiceType      enums.ServiceType      `gorm:"column:service_type;type:text;not null"`
	SchedulingOption enums.SchedulingOption `gorm:"column:scheduling_option;type:text;not null"`
	ScheduledDate    *time.Time             `gorm:"column:scheduled_date;type:date"`

	AddressLine1 string  `gorm:"column:address_line1;type:text;not null"`
	AddressLine2 *string `gorm:"column:address_line2;type:text"`
	City         string  `gorm:"type:text;not null"`
	State        string  `gorm:"type:text;not null"`
	ZipCode      string  `gorm:"column:zip_code;type:text;not null"`

	Detergent           enums.Detergent    `gorm:"type:text;not null"`
	WaterTemp           enums.WaterTemp    `gorm:"column:water_temp;type:text;not null"`
	DryTemp             enums.DryTemp      `gorm:"column:dry_temp;type:text;not null"`
	BleachOption        enums.BleachOption `gorm:"column:bleach_option;type:text;not null"`
	FabricSoftener      bool               `gorm:"column:fabric_softener;not null"`
	DryerSheets         bool               `gorm:"column:dryer_sheets;not null"`
	Scent               *enums.Scent       `gorm:"type:text"`
	SpecialInstructions *string            `gorm:"column:special_instructions;type:text"`

	PaymentIntentID *string             `gorm:"column:payment_intent_id;type:text;uniqueIndex"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// OrderItem links an order to catalog services at the price paid.
type OrderItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ServiceID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity       int       `gorm:"not null;default:1"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`

	Service *Service `gorm:"foreignKey:ServiceID"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}
