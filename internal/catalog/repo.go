package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/internal/repo"
	"github.com/washday/laundry-backend/pkg/db/models"
)

// Repository persists catalog services.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns services newest first. activeOnly hides retired entries.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.Service, error) {
	query := r.DB(ctx).Model(&models.Service{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var rows []models.Service
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	var svc models.Service
	if err := r.DB(ctx).First(&svc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *Repository) Create(ctx context.Context, svc *models.Service) (*models.Service, error) {
	if err := r.DB(ctx).Create(svc).Error; err != nil {
		return nil, err
	}
	return svc, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return repo.Affected(r.DB(ctx).Model(&models.Service{}).Where("id = ?", id).Updates(updates))
}

// CountOrderItems reports how many order lines reference the service.
func (r *Repository) CountOrderItems(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.OrderItem{}).Where("service_id = ?", id).Count(&n).Error
	return n, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.Affected(r.DB(ctx).Where("id = ?", id).Delete(&models.Service{}))
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Service{}).Count(&n).Error
	return n, err
}
