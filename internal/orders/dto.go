package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
)

// CheckoutOrder is a paid wizard draft ready to be stored.
type CheckoutOrder struct {
	CustomerID   *uuid.UUID
	ContactName  string
	ContactEmail string
	ContactPhone string

	Weight           enums.WeightBracket
	ServiceType      enums.ServiceType
	SchedulingOption enums.SchedulingOption
	ScheduledDate    *time.Time

	AddressLine1 string
	AddressLine2 string
	City         string
	State        string
	ZipCode      string

	Detergent           enums.Detergent
	WaterTemp           enums.WaterTemp
	DryTemp             enums.DryTemp
	BleachOption        enums.BleachOption
	FabricSoftener      bool
	DryerSheets         bool
	Scent               enums.Scent
	SpecialInstructions string

	TotalAmountCents int64
	PaymentIntentID  string
}

// ListFilters narrows the admin order list.
type ListFilters struct {
	Status     *enums.OrderStatus
	CustomerID *uuid.UUID
}

// OrderSummary is the list row shape.
type OrderSummary struct {
	ID               uuid.UUID           `json:"id"`
	CustomerID       *uuid.UUID          `json:"customer_id,omitempty"`
	ContactName      string              `json:"contact_name"`
	ContactEmail     string              `json:"contact_email"`
	Status           enums.OrderStatus   `json:"status"`
	PaymentStatus    enums.PaymentStatus `json:"payment_status"`
	TotalAmountCents int64               `json:"total_amount_cents"`
	WeightBracket    enums.WeightBracket `json:"weight_bracket"`
	ServiceType      enums.ServiceType   `json:"service_type"`
	ScheduledDate    *string             `json:"scheduled_date,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
}

// OrderList wraps a page of orders plus the next cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// OrderItemDTO is a catalog line on an order.
type OrderItemDTO struct {
	ID             uuid.UUID `json:"id"`
	ServiceID      uuid.UUID `json:"service_id"`
	ServiceName    string    `json:"service_name,omitempty"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
}

// OrderDetail carries every stored field of an order.
type OrderDetail struct {
	OrderSummary
	ContactPhone        string                 `json:"contact_phone"`
	SchedulingOption    enums.SchedulingOption `json:"scheduling_option"`
	AddressLine1        string                 `json:"address_line1"`
	AddressLine2        *string                `json:"address_line2,omitempty"`
	City                string                 `json:"city"`
	State               string                 `json:"state"`
	ZipCode             string                 `json:"zip_code"`
	Detergent           enums.Detergent        `json:"detergent"`
	WaterTemp           enums.WaterTemp        `json:"water_temp"`
	DryTemp             enums.DryTemp          `json:"dry_temp"`
	BleachOption        enums.BleachOption     `json:"bleach_option"`
	FabricSoftener      bool                   `json:"fabric_softener"`
	DryerSheets         bool                   `json:"dryer_sheets"`
	Scent               *enums.Scent           `json:"scent,omitempty"`
	SpecialInstructions *string                `json:"special_instructions,omitempty"`
	PaymentIntentID     *string                `json:"payment_intent_id,omitempty"`
	Items               []OrderItemDTO         `json:"items"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// CustomerOrders splits a customer's history for the account area.
type CustomerOrders struct {
	Active []OrderSummary `json:"active"`
	Past   []OrderSummary `json:"past"`
}

func SummaryFromModel(o *models.Order) OrderSummary {
	summary := OrderSummary{
		ID:               o.ID,
		CustomerID:       o.CustomerID,
		ContactName:      o.ContactName,
		ContactEmail:     o.ContactEmail,
		Status:           o.Status,
		PaymentStatus:    o.PaymentStatus,
		TotalAmountCents: o.TotalAmountCents,
		WeightBracket:    o.WeightBracket,
		ServiceType:      o.ServiceType,
		CreatedAt:        o.CreatedAt,
	}
	if o.ScheduledDate != nil {
		date := o.ScheduledDate.Format("2006-01-02")
		summary.ScheduledDate = &date
	}
	return summary
}

func DetailFromModel(o *models.Order) *OrderDetail {
	if o == nil {
		return nil
	}
	detail := &OrderDetail{
		OrderSummary:        SummaryFromModel(o),
		ContactPhone:        o.ContactPhone,
		SchedulingOption:    o.SchedulingOption,
		AddressLine1:        o.AddressLine1,
		AddressLine2:        o.AddressLine2,
		City:                o.City,
		State:               o.State,
		ZipCode:             o.ZipCode,
		Detergent:           o.Detergent,
		WaterTemp:           o.WaterTemp,
		DryTemp:             o.DryTemp,
		BleachOption:        o.BleachOption,
		FabricSoftener:      o.FabricSoftener,
		DryerSheets:         o.DryerSheets,
		Scent:               o.Scent,
		SpecialInstructions: o.SpecialInstructions,
		PaymentIntentID:     o.PaymentIntentID,
		Items:               make([]OrderItemDTO, 0, len(o.Items)),
		UpdatedAt:           o.UpdatedAt,
	}
	for _, item := range o.Items {
		dto := OrderItemDTO{
			ID:             item.ID,
			ServiceID:      item.ServiceID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		}
		if item.Service != nil {
			dto.ServiceName = item.Service.Name
		}
		detail.Items = append(detail.Items, dto)
	}
	return detail
}

func (c CheckoutOrder) toModel() *models.Order {
	order := &models.Order{
		CustomerID:          c.CustomerID,
		Status:              enums.OrderStatusPending,
		TotalAmountCents:    c.TotalAmountCents,
		ContactName:         c.ContactName,
		ContactEmail:        c.ContactEmail,
		ContactPhone:        c.ContactPhone,
		WeightBracket:       c.Weight,
		ServiceType:         c.ServiceType,
		SchedulingOption:    c.SchedulingOption,
		ScheduledDate:       c.ScheduledDate,
		AddressLine1:        c.AddressLine1,
		AddressLine2:        optional(c.AddressLine2),
		City:                c.City,
		State:               c.State,
		ZipCode:             c.ZipCode,
		Detergent:           c.Detergent,
		WaterTemp:           c.WaterTemp,
		DryTemp:             c.DryTemp,
		BleachOption:        c.BleachOption,
		FabricSoftener:      c.FabricSoftener,
		DryerSheets:         c.DryerSheets,
		SpecialInstructions: optional(c.SpecialInstructions),
		PaymentIntentID:     optional(c.PaymentIntentID),
		PaymentStatus:       enums.PaymentStatusSucceeded,
	}
	if c.Scent != "" {
		scent := c.Scent
		order.Scent = &scent
	}
	return order
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
