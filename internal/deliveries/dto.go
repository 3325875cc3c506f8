package deliveries

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
	"github.com/washday/laundry-backend/pkg/types"
)

type DeliveryDTO struct {
	ID            uuid.UUID            `json:"id"`
	OrderID       *uuid.UUID           `json:"order_id,omitempty"`
	CustomerName  string               `json:"customer_name"`
	Address       string               `json:"address"`
	DriverName    *string              `json:"driver_name,omitempty"`
	Status        enums.DeliveryStatus `json:"status"`
	ScheduledTime *time.Time           `json:"scheduled_time,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

type DeliveryList struct {
	Deliveries []DeliveryDTO `json:"deliveries"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ListFilters narrows the admin delivery board.
type ListFilters struct {
	Status *enums.DeliveryStatus
	Search string
}

type CreateDeliveryDTO struct {
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	CustomerName  string     `json:"customer_name" validate:"required,max=100"`
	Address       string     `json:"address" validate:"required,max=300"`
	DriverName    *string    `json:"driver_name,omitempty" validate:"omitempty,max=100"`
	Status        string     `json:"status,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
}

// UpdateDeliveryDTO patches a delivery. An explicit "order_id": null unlinks
// the delivery from its order; omitting the field leaves the link alone.
type UpdateDeliveryDTO struct {
	OrderID       types.NullableUUID `json:"order_id"`
	CustomerName  *string            `json:"customer_name,omitempty" validate:"omitempty,min=1,max=100"`
	Address       *string            `json:"address,omitempty" validate:"omitempty,min=1,max=300"`
	DriverName    *string            `json:"driver_name,omitempty" validate:"omitempty,max=100"`
	Status        *string            `json:"status,omitempty"`
	ScheduledTime *time.Time         `json:"scheduled_time,omitempty"`
}

type UpdateStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

func FromModel(d *models.Delivery) DeliveryDTO {
	return DeliveryDTO{
		ID:            d.ID,
		OrderID:       d.OrderID,
		CustomerName:  d.CustomerName,
		Address:       d.Address,
		DriverName:    d.DriverName,
		Status:        d.Status,
		ScheduledTime: d.ScheduledTime,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
