package deliveries

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

// List pages deliveries newest first. Search matches customer, address or driver.
func (r *Repository) List(ctx context.Context, filters ListFilters, cursor *pagination.Cursor, limit int) ([]models.Delivery, error) {
	query := r.DB(ctx).Model(&models.Delivery{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if term := strings.ToLower(strings.TrimSpace(filters.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where(
			"lower(customer_name) LIKE ? OR lower(address) LIKE ? OR lower(coalesce(driver_name, '')) LIKE ?",
			like, like, like,
		)
	}

	var rows []models.Delivery
	if err := pagination.Apply(query, "", cursor, limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Delivery, error) {
	var d models.Delivery
	if err := r.DB(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *Repository) Create(ctx context.Context, d *models.Delivery) (*models.Delivery, error) {
	if err := r.DB(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return repo.Affected(r.DB(ctx).Model(&models.Delivery{}).Where("id = ?", id).Updates(updates))
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.Affected(r.DB(ctx).Where("id = ?", id).Delete(&models.Delivery{}))
}

func (r *Repository) OrderExists(ctx context.Context, orderID uuid.UUID) (bool, error) {
	return r.Exists(ctx, &models.Order{}, orderID)
}
