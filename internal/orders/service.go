package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/pkg/db"
	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
	"github.com/washday/laundry-backend/pkg/pagination"
)

// Service exposes order workflows to the wizard, account area, admin and webhooks.
type Service interface {
	CreateFromCheckout(ctx context.Context, input CheckoutOrder) (*models.Order, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error)
	Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*OrderDetail, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CustomerOrders(ctx context.Context, customerID uuid.UUID) (*CustomerOrders, error)
	UpdatePaymentStatus(ctx context.Context, intentID string, status enums.PaymentStatus) (bool, error)
}

type service struct {
	repo      Repository
	customers CustomerResolver
	logg      *logger.Logger
}

// NewService builds the order service. customers may be nil, in which case
// guest orders stay unlinked.
func NewService(repo Repository, customers CustomerResolver, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, customers: customers, logg: logg}, nil
}

func (s *service) CreateFromCheckout(ctx context.Context, input CheckoutOrder) (*models.Order, error) {
	if strings.TrimSpace(input.ContactEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact email required")
	}
	if input.TotalAmountCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total must be positive")
	}

	if input.CustomerID == nil && s.customers != nil {
		customer, err := s.customers.FindOrCreateGuest(ctx, input.ContactName, input.ContactEmail, optional(input.ContactPhone))
		if err != nil {
			s.logg.Error(ctx, "failed to resolve customer for checkout order", err)
		} else {
			input.CustomerID = &customer.ID
		}
	}

	order, err := s.repo.Create(ctx, input.toModel())
	if err != nil {
		if input.PaymentIntentID != "" && db.IsUniqueViolation(err, "idx_orders_payment_intent") {
			existing, findErr := s.repo.FindByPaymentIntent(ctx, input.PaymentIntentID)
			if findErr == nil {
				return existing, nil
			}
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create order")
	}
	s.logg.Info(s.logg.WithField(ctx, "order_id", order.ID.String()), "order created from checkout")
	return order, nil
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, filters, cursor, params.Limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list orders")
	}
	rows, next := pagination.Trim(rows, params.Limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})

	list := &OrderList{Orders: make([]OrderSummary, 0, len(rows)), NextCursor: next}
	for i := range rows {
		list.Orders = append(list.Orders, SummaryFromModel(&rows[i]))
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "load order")
	}
	return DetailFromModel(order), nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, raw string) (*OrderDetail, error) {
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, mapLookupError(err, "update order status")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapLookupError(err, "delete order")
	}
	return nil
}

func (s *service) CustomerOrders(ctx context.Context, customerID uuid.UUID) (*CustomerOrders, error) {
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list customer orders")
	}
	out := &CustomerOrders{Active: []OrderSummary{}, Past: []OrderSummary{}}
	for i := range rows {
		summary := SummaryFromModel(&rows[i])
		if rows[i].Status.IsActive() {
			out.Active = append(out.Active, summary)
		} else {
			out.Past = append(out.Past, summary)
		}
	}
	return out, nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, intentID string, status enums.PaymentStatus) (bool, error) {
	if strings.TrimSpace(intentID) == "" {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "payment intent id required")
	}
	if !status.IsValid() {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	n, err := s.repo.UpdatePaymentStatus(ctx, intentID, status)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update payment status")
	}
	return n > 0, nil
}

func mapLookupError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
