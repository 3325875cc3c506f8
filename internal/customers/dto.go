package customers

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
)

// OrderRef is the short order summary shown beside a customer.
type OrderRef struct {
	ID               uuid.UUID         `json:"id"`
	Status           enums.OrderStatus `json:"status"`
	TotalAmountCents int64             `json:"total_amount_cents"`
}

type CustomerDTO struct {
	ID        uuid.UUID  `json:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone,omitempty"`
	Orders    []OrderRef `json:"orders,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CustomerList struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// CreateCustomerDTO is the admin payload for a new profile.
type CreateCustomerDTO struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Email string  `json:"email" validate:"required,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// UpdateCustomerDTO only touches the fields present in the request.
type UpdateCustomerDTO struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

// ProfileUpdate is what a signed-in customer may change about themselves.
type ProfileUpdate struct {
	Name  string  `json:"name" validate:"required,max=100"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,max=30"`
}

func FromModel(c *models.Customer) CustomerDTO {
	dto := CustomerDTO{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	for _, o := range c.Orders {
		dto.Orders = append(dto.Orders, OrderRef{ID: o.ID, Status: o.Status, TotalAmountCents: o.TotalAmountCents})
	}
	return dto
}

func (c CreateCustomerDTO) ToModel() *models.Customer {
	return &models.Customer{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
		Phone: trimmed(c.Phone),
	}
}

func (u UpdateCustomerDTO) updates() map[string]any {
	out := map[string]any{}
	if u.Name != nil {
		out["name"] = strings.TrimSpace(*u.Name)
	}
	if u.Email != nil {
		out["email"] = strings.ToLower(strings.TrimSpace(*u.Email))
	}
	if u.Phone != nil {
		out["phone"] = trimmed(u.Phone)
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
