package support

import (
	"time"

	"github.com/google/uuid"

	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
)

// SubmitIssueDTO is the support form payload. Minimum lengths and the email
// format are checked by the service so the form gets its own wording.
type SubmitIssueDTO struct {
	Name  string `json:"name" validate:"max=100"`
	Email string `json:"email" validate:"max=254"`
	Issue string `json:"issue" validate:"max=4000"`
}

type IssueDTO struct {
	ID        uuid.UUID           `json:"id"`
	UserID    *uuid.UUID          `json:"user_id,omitempty"`
	Name      string              `json:"name"`
	Email     string              `json:"email"`
	Issue     string              `json:"issue"`
	Status    enums.SupportStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type IssueList struct {
	Issues     []IssueDTO `json:"issues"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

type UpdateIssueDTO struct {
	Status string `json:"status" validate:"required"`
}

func FromModel(i *models.SupportIssue) IssueDTO {
	return IssueDTO{
		ID:        i.ID,
		UserID:    i.UserID,
		Name:      i.Name,
		Email:     i.Email,
		Issue:     i.Issue,
		Status:    i.Status,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
