package support

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/internal/repo"
	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
	"github.com/washday/laundry-backend/pkg/pagination"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, issue *models.SupportIssue) (*models.SupportIssue, error) {
	if err := r.DB(ctx).Create(issue).Error; err != nil {
		return nil, err
	}
	return issue, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SupportIssue, error) {
	var issue models.SupportIssue
	if err := r.DB(ctx).First(&issue, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// List pages issues newest first, optionally narrowed to one status.
func (r *Repository) List(ctx context.Context, status *enums.SupportStatus, cursor *pagination.Cursor, limit int) ([]models.SupportIssue, error) {
	query := r.DB(ctx).Model(&models.SupportIssue{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var rows []models.SupportIssue
	if err := pagination.Apply(query, "", cursor, limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.SupportStatus) error {
	return repo.Affected(r.DB(ctx).Model(&models.SupportIssue{}).Where("id = ?", id).Update("status", status))
}
