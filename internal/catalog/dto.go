package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/washday/laundry-backend/internal/pricing"
	"github.com/washday/laundry-backend/pkg/db/models"
)

type ServiceDTO struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description,omitempty"`
	PriceCents     int64     `json:"price_cents"`
	Price          string    `json:"price"`
	TurnaroundTime *string   `json:"turnaround_time,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateServiceDTO struct {
	Name           string  `json:"name" validate:"required,max=120"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	PriceCents     int64   `json:"price_cents" validate:"min=0"`
	TurnaroundTime *string `json:"turnaround_time,omitempty" validate:"omitempty,max=60"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

type UpdateServiceDTO struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Description    *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	PriceCents     *int64  `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	TurnaroundTime *string `json:"turnaround_time,omitempty" validate:"omitempty,max=60"`
	IsActive       *bool   `json:"is_active,omitempty"`
}

// DeleteCheck tells the admin UI whether a service can be removed.
type DeleteCheck struct {
	CanDelete  bool  `json:"can_delete"`
	OrderItems int64 `json:"order_items"`
}

func FromModel(s *models.Service) ServiceDTO {
	return ServiceDTO{
		ID:             s.ID,
		Name:           s.Name,
		Description:    s.Description,
		PriceCents:     s.PriceCents,
		Price:          pricing.FormatAmount(pricing.FromMinorUnits(s.PriceCents)),
		TurnaroundTime: s.TurnaroundTime,
		IsActive:       s.IsActive,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func (c CreateServiceDTO) ToModel() *models.Service {
	active := true
	if c.IsActive != nil {
		active = *c.IsActive
	}
	return &models.Service{
		Name:           strings.TrimSpace(c.Name),
		Description:    trimmed(c.Description),
		PriceCents:     c.PriceCents,
		TurnaroundTime: trimmed(c.TurnaroundTime),
		IsActive:       active,
	}
}

func (u UpdateServiceDTO) updates() map[string]any {
	out := map[string]any{}
	if u.Name != nil {
		out["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		out["description"] = trimmed(u.Description)
	}
	if u.PriceCents != nil {
		out["price_cents"] = *u.PriceCents
	}
	if u.TurnaroundTime != nil {
		out["turnaround_time"] = trimmed(u.TurnaroundTime)
	}
	if u.IsActive != nil {
		out["is_active"] = *u.IsActive
	}
	return out
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
