package leads

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/internal/repo"
	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/pagination"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

func (r *Repository) Create(ctx context.Context, lead *models.Lead) (*models.Lead, error) {
	if err := r.DB(ctx).Create(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := r.DB(ctx).First(&lead, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lead, nil
}

// List pages leads newest first; search matches name, email or phone.
func (r *Repository) List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.Lead, error) {
	query := r.DB(ctx).Model(&models.Lead{})
	if !filters.IncludeConverted {
		query = query.Where("converted = ?", false)
	}
	if term := strings.ToLower(strings.TrimSpace(filters.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where(
			"lower(coalesce(name, '')) LIKE ? OR lower(email) LIKE ? OR lower(coalesce(phone, '')) LIKE ?",
			like, like, like,
		)
	}

	var rows []models.Lead
	if err := pagination.Apply(query, "", cursor, limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return repo.Affected(r.DB(ctx).Model(&models.Lead{}).Where("id = ?", id).Updates(updates))
}
