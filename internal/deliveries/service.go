package deliveries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
	"github.com/washday/laundry-backend/pkg/pagination"
)

// Service manages delivery records. Status is a label only.
type Service interface {
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*DeliveryList, error)
	Get(ctx context.Context, id uuid.UUID) (*DeliveryDTO, error)
	Create(ctx context.Context, input CreateDeliveryDTO) (*DeliveryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateDeliveryDTO) (*DeliveryDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*DeliveryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("deliveries repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*DeliveryList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, filters, cursor, params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list deliveries")
	}
	rows, next := pagination.Trim(rows, params.Limit, func(d models.Delivery) pagination.Cursor {
		return pagination.Cursor{CreatedAt: d.CreatedAt, ID: d.ID}
	})
	out := &DeliveryList{Deliveries: make([]DeliveryDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		out.Deliveries = append(out.Deliveries, FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DeliveryDTO, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "load delivery")
	}
	dto := FromModel(d)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateDeliveryDTO) (*DeliveryDTO, error) {
	details := map[string]string{}
	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		details["customer_name"] = "is required"
	}
	address := strings.TrimSpace(input.Address)
	if address == "" {
		details["address"] = "is required"
	}
	status := enums.DeliveryStatusScheduled
	if strings.TrimSpace(input.Status) != "" {
		parsed, err := enums.ParseDeliveryStatus(input.Status)
		if err != nil {
			details["status"] = err.Error()
		}
		status = parsed
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery").WithDetails(details)
	}
	if err := s.checkOrder(ctx, input.OrderID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &models.Delivery{
		OrderID:       input.OrderID,
		CustomerName:  name,
		Address:       address,
		DriverName:    trimmed(input.DriverName),
		Status:        status,
		ScheduledTime: input.ScheduledTime,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create delivery")
	}
	dto := FromModel(created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateDeliveryDTO) (*DeliveryDTO, error) {
	updates := map[string]any{}
	if input.CustomerName != nil {
		name := strings.TrimSpace(*input.CustomerName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name cannot be empty")
		}
		updates["customer_name"] = name
	}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if address == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address cannot be empty")
		}
		updates["address"] = address
	}
	if input.DriverName != nil {
		updates["driver_name"] = trimmed(input.DriverName)
	}
	if input.Status != nil {
		status, err := enums.ParseDeliveryStatus(*input.Status)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery status")
		}
		updates["status"] = status
	}
	if input.ScheduledTime != nil {
		updates["scheduled_time"] = input.ScheduledTime
	}
	if input.OrderID.Valid {
		if input.OrderID.Value == nil {
			updates["order_id"] = nil
		} else {
			if err := s.checkOrder(ctx, input.OrderID.Value); err != nil {
				return nil, err
			}
			updates["order_id"] = *input.OrderID.Value
		}
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, mapLookupError(err, "update delivery")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, raw string) (*DeliveryDTO, error) {
	return s.Update(ctx, id, UpdateDeliveryDTO{Status: &raw})
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapLookupError(err, "delete delivery")
	}
	return nil
}

func (s *service) checkOrder(ctx context.Context, orderID *uuid.UUID) error {
	if orderID == nil {
		return nil
	}
	ok, err := s.repo.OrderExists(ctx, *orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup order")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "order does not exist").
			WithDetails(map[string]string{"order_id": "unknown order"})
	}
	return nil
}

func mapLookupError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "delivery not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
