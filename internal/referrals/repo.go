package referrals

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/washday/laundry-backend/internal/repo"
	"github.com/washday/laundry-backend/pkg/db/models"
)

type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// ListByUser returns a user's codes, smallest discount first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ReferralCode, error) {
	var rows []models.ReferralCode
	err := r.DB(ctx).
		Where("user_id = ?", userID).
		Order("discount_cents ASC").
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// CreateMissing inserts codes, skipping any whose code already exists.
func (r *Repository) CreateMissing(ctx context.Context, codes []models.ReferralCode) error {
	if len(codes) == 0 {
		return nil
	}
	return r.DB(ctx).Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).Create(&codes).Error
}

// CreditCents reads the referral credit balance stored on the login.
func (r *Repository) CreditCents(ctx context.Context, userID uuid.UUID) (int64, error) {
	var user models.User
	if err := r.DB(ctx).Select("id", "credit_cents").First(&user, "id = ?", userID).Error; err != nil {
		return 0, err
	}
	return user.CreditCents, nil
}
