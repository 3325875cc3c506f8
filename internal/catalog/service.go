package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/pkg/db"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
)

// Service manages the laundry catalog shown on the public site and in admin.
type Service interface {
	ListActive(ctx context.Context) ([]ServiceDTO, error)
	List(ctx context.Context) ([]ServiceDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*ServiceDTO, error)
	Create(ctx context.Context, input CreateServiceDTO) (*ServiceDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateServiceDTO) (*ServiceDTO, error)
	CanDelete(ctx context.Context, id uuid.UUID) (*DeleteCheck, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListActive(ctx context.Context) ([]ServiceDTO, error) {
	return s.list(ctx, true)
}

func (s *service) List(ctx context.Context) ([]ServiceDTO, error) {
	return s.list(ctx, false)
}

func (s *service) list(ctx context.Context, activeOnly bool) ([]ServiceDTO, error) {
	rows, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list services")
	}
	out := make([]ServiceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ServiceDTO, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "load service")
	}
	dto := FromModel(svc)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateServiceDTO) (*ServiceDTO, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]string{"name": "is required"})
	}
	if input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative").
			WithDetails(map[string]string{"price_cents": "must be at least 0"})
	}
	created, err := s.repo.Create(ctx, input.ToModel())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create service")
	}
	s.logg.Info(s.logg.WithField(ctx, "service_id", created.ID.String()), "catalog service created")
	dto := FromModel(created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateServiceDTO) (*ServiceDTO, error) {
	updates := input.updates()
	if name, ok := updates["name"]; ok && name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
	}
	if price, ok := updates["price_cents"].(int64); ok && price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, mapLookupError(err, "update service")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) CanDelete(ctx context.Context, id uuid.UUID) (*DeleteCheck, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, mapLookupError(err, "load service")
	}
	n, err := s.repo.CountOrderItems(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count order items")
	}
	return &DeleteCheck{CanDelete: n == 0, OrderItems: n}, nil
}

// Delete refuses to remove a service that orders still reference; deactivate it instead.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	check, err := s.CanDelete(ctx, id)
	if err != nil {
		return err
	}
	if !check.CanDelete {
		return pkgerrors.New(pkgerrors.CodeConflict, "service is used by existing orders").
			WithDetails(map[string]any{"order_items": check.OrderItems})
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsForeignKeyViolation(err) {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "service is used by existing orders")
		}
		return mapLookupError(err, "delete service")
	}
	return nil
}

func mapLookupError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "service not found")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
