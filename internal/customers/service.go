package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/internal/users"
	"github.com/washday/laundry-backend/pkg/db"
	"github.com/washday/laundry-backend/pkg/db/models"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
	"github.com/washday/laundry-backend/pkg/pagination"
)

// Service covers customer profiles for checkout, the account area and admin.
type Service interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	FindOrCreateGuest(ctx context.Context, name, email string, phone *string) (*models.Customer, error)
	Profile(ctx context.Context, userID uuid.UUID) (*CustomerDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdate) (*CustomerDTO, error)

	List(ctx context.Context, search string, params pagination.Params) (*CustomerList, error)
	Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	Create(ctx context.Context, input CreateCustomerDTO) (*CustomerDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCustomerDTO) (*CustomerDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
	logg *logger.Logger
}

func NewService(repo *Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, mapLookupError(err, "load customer profile")
	}
	return customer, nil
}

// FindOrCreateGuest reuses an unlinked profile with the same email so repeat
// guest orders share one customer.
func (s *service) FindOrCreateGuest(ctx context.Context, name, email string, phone *string) (*models.Customer, error) {
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	existing, err := s.repo.FindGuestByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup guest customer")
	}

	created, err := s.repo.Create(ctx, CreateCustomerDTO{Name: name, Email: email, Phone: phone}.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create guest customer")
	}
	s.logg.Info(s.logg.WithField(ctx, "customer_id", created.ID.String()), "guest customer created")
	return created, nil
}

func (s *service) Profile(ctx context.Context, userID uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(customer)
	return &dto, nil
}

// UpdateProfile keeps the login identity and the customer profile in sync.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileUpdate) (*CustomerDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]string{"name": "Name is required"})
	}
	phone := trimmed(input.Phone)

	var updated *models.Customer
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customer, err := repo.FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if err := repo.Update(ctx, customer.ID, map[string]any{"name": name, "phone": phone}); err != nil {
			return err
		}
		if err := users.NewRepository(tx).UpdateProfile(ctx, userID, name, phone); err != nil {
			return err
		}
		updated, err = repo.FindByID(ctx, customer.ID)
		return err
	})
	if err != nil {
		return nil, mapLookupError(err, "update profile")
	}
	dto := FromModel(updated)
	return &dto, nil
}

func (s *service) List(ctx context.Context, search string, params pagination.Params) (*CustomerList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, search, cursor, params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customers")
	}
	rows, next := pagination.Trim(rows, params.Limit, func(c models.Customer) pagination.Cursor {
		return pagination.Cursor{CreatedAt: c.CreatedAt, ID: c.ID}
	})

	out := &CustomerList{Customers: make([]CustomerDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		out.Customers = append(out.Customers, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "load customer")
	}
	dto := FromModel(customer)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateCustomerDTO) (*CustomerDTO, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and email are required")
	}
	created, err := s.repo.Create(ctx, input.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer")
	}
	dto := FromModel(created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateCustomerDTO) (*CustomerDTO, error) {
	updates := input.updates()
	if name, ok := updates["name"]; ok && name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, mapLookupError(err, "update customer")
		}
	}
	return s.Get(ctx, id)
}

// Delete keeps the customer's orders; their customer_id is cleared.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Model(&models.Order{}).
			Where("customer_id = ?", id).
			Update("customer_id", nil).Error; err != nil {
			return err
		}
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "customer is still referenced")
		}
		return mapLookupError(err, "delete customer")
	}
	return nil
}

func mapLookupError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
