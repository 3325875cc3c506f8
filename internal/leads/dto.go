package leads

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
)

// DefaultSource tags leads captured without an explicit origin.
const DefaultSource = "website"

type LeadDTO struct {
	ID        uuid.UUID        `json:"id"`
	Name      *string          `json:"name,omitempty"`
	Email     string           `json:"email"`
	Phone     *string          `json:"phone,omitempty"`
	ZipCode   *string          `json:"zip_code,omitempty"`
	Source    string           `json:"source"`
	Status    enums.LeadStatus `json:"status"`
	Converted bool             `json:"converted"`
	Notes     *string          `json:"notes,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type LeadList struct {
	Leads      []LeadDTO `json:"leads"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// CaptureLeadDTO is the public sign-up form payload.
type CaptureLeadDTO struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	ZipCode *string `json:"zip_code,omitempty" validate:"omitempty,len=5,numeric"`
	Source  string  `json:"source,omitempty" validate:"omitempty,max=50"`
}

type UpdateLeadDTO struct {
	Status    *string `json:"status,omitempty"`
	Notes     *string `json:"notes,omitempty" validate:"omitempty,max=4000"`
	Converted *bool   `json:"converted,omitempty"`
}

type ListFilters struct {
	Search           string
	IncludeConverted bool
}

func FromModel(l *models.Lead) LeadDTO {
	return LeadDTO{
		ID:        l.ID,
		Name:      l.Name,
		Email:     l.Email,
		Phone:     l.Phone,
		ZipCode:   l.ZipCode,
		Source:    l.Source,
		Status:    l.Status,
		Converted: l.Converted,
		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func (c CaptureLeadDTO) ToModel() *models.Lead {
	source := strings.TrimSpace(c.Source)
	if source == "" {
		source = DefaultSource
	}
	return &models.Lead{
		Name:    trimmed(c.Name),
		Email:   strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:   trimmed(c.Phone),
		ZipCode: trimmed(c.ZipCode),
		Source:  source,
		Status:  enums.LeadStatusNew,
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
