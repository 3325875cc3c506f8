package customers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/internal/repo"
	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/pagination"
)

// Repository persists customer profiles.
type Repository struct {
	repo.Base
}

// NewRepository binds a customers repository to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository that runs against the supplied transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

func (r *Repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.DB(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := r.DB(ctx).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		First(&customer, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.DB(ctx).First(&customer, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindGuestByEmail returns the oldest unlinked profile for email.
func (r *Repository) FindGuestByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	err := r.DB(ctx).
		Where("lower(email) = ? AND user_id IS NULL", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at ASC").
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return repo.Affected(r.DB(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(updates))
}

// List pages customers newest first with their orders preloaded.
func (r *Repository) List(ctx context.Context, search string, cursor *pagination.Cursor, limit int) ([]models.Customer, error) {
	query := r.DB(ctx).Model(&models.Customer{}).
		Preload("Orders", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") })
	if term := strings.ToLower(strings.TrimSpace(search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("lower(name) LIKE ? OR lower(email) LIKE ?", like, like)
	}

	var rows []models.Customer
	if err := pagination.Apply(query, "", cursor, limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return repo.Affected(r.DB(ctx).Where("id = ?", id).Delete(&models.Customer{}))
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB(ctx).Model(&models.Customer{}).Count(&n).Error
	return n, err
}
