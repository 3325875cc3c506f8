package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is embedded by every domain repository.
type Base struct {
	db *gorm.DB
}

func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the connection bound to ctx. A nil ctx yields the raw handle.
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Exists reports whether a row of model's table has the given primary key.
func (b Base) Exists(ctx context.Context, model any, id uuid.UUID) (bool, error) {
	var n int64
	err := b.DB(ctx).Model(model).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// Affected turns a zero-row update or delete into gorm.ErrRecordNotFound so
// services can map it to NOT_FOUND.
func Affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
