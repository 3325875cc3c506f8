package orders

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
	"github.com/washday/laundry-backend/pkg/pagination"
)

type stubResolver struct {
	customer *models.Customer
	err      error
	calls    int
}

func (s *stubResolver) FindOrCreateGuest(_ context.Context, name, email string, _ *string) (*models.Customer, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if s.customer == nil {
		s.customer = &models.Customer{ID: uuid.New(), Name: name, Email: email}
	}
	return s.customer, nil
}

func newTestService(t *testing.T, resolver CustomerResolver) (Service, Repository) {
	t.Helper()
	repo := NewRepository(newTestDB(t))
	svc, err := NewService(repo, resolver, logger.Nop())
	require.NoError(t, err)
	return svc, repo
}

func TestCreateFromCheckoutLinksGuestCustomer(t *testing.T) {
	resolver := &stubResolver{}
	svc, _ := newTestService(t, resolver)

	order, err := svc.CreateFromCheckout(context.Background(), sampleCheckout())
	require.NoError(t, err)
	require.NotNil(t, order.CustomerID)
	assert.Equal(t, resolver.customer.ID, *order.CustomerID)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, int64(2713), order.TotalAmountCents)
}

func TestCreateFromCheckoutKeepsOrderWhenResolverFails(t *testing.T) {
	svc, _ := newTestService(t, &stubResolver{err: errors.New("db down")})

	order, err := svc.CreateFromCheckout(context.Background(), sampleCheckout())
	require.NoError(t, err)
	assert.Nil(t, order.CustomerID)
}

func TestCreateFromCheckoutSkipsResolverForKnownCustomer(t *testing.T) {
	resolver := &stubResolver{}
	svc, _ := newTestService(t, resolver)
	input := sampleCheckout()
	id := uuid.New()
	input.CustomerID = &id

	order, err := svc.CreateFromCheckout(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, id, *order.CustomerID)
	assert.Zero(t, resolver.calls)
}

func TestCreateFromCheckoutIsIdempotentPerIntent(t *testing.T) {
	svc, _ := newTestService(t, nil)
	input := sampleCheckout()

	first, err := svc.CreateFromCheckout(context.Background(), input)
	require.NoError(t, err)
	second, err := svc.CreateFromCheckout(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestCreateFromCheckoutValidation(t *testing.T) {
	svc, _ := newTestService(t, nil)
	input := sampleCheckout()
	input.TotalAmountCents = 0
	_, err := svc.CreateFromCheckout(context.Background(), input)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	input = sampleCheckout()
	input.ContactEmail = " "
	_, err = svc.CreateFromCheckout(context.Background(), input)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListReturnsCursor(t *testing.T) {
	svc, repo := newTestService(t, nil)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedOrder(t, repo, enums.OrderStatusPending, nil, base.Add(time.Duration(i)*time.Minute))
	}

	page, err := svc.List(context.Background(), ListFilters{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Orders, 2)
	require.NotEmpty(t, page.NextCursor)

	rest, err := svc.List(context.Background(), ListFilters{}, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Orders, 1)
	assert.Empty(t, rest.NextCursor)

	_, err = svc.List(context.Background(), ListFilters{}, pagination.Params{Cursor: "!!"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateStatusAndDelete(t *testing.T) {
	svc, repo := newTestService(t, nil)
	order := seedOrder(t, repo, enums.OrderStatusPending, nil, time.Now())
	ctx := context.Background()

	detail, err := svc.UpdateStatus(ctx, order.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCompleted, detail.Status)

	_, err = svc.UpdateStatus(ctx, order.ID, "shipped")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.UpdateStatus(ctx, uuid.New(), "completed")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, svc.Delete(ctx, order.ID))
	_, err = svc.Get(ctx, order.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCustomerOrdersSplitsActiveAndPast(t *testing.T) {
	svc, repo := newTestService(t, nil)
	customerID := uuid.New()
	now := time.Now()
	for i, status := range []enums.OrderStatus{
		enums.OrderStatusPending, enums.OrderStatusProcessing,
		enums.OrderStatusCompleted, enums.OrderStatusCancelled,
	} {
		seedOrder(t, repo, status, &customerID, now.Add(time.Duration(i)*time.Second))
	}
	seedOrder(t, repo, enums.OrderStatusPending, nil, now)

	out, err := svc.CustomerOrders(context.Background(), customerID)
	require.NoError(t, err)
	assert.Len(t, out.Active, 2)
	assert.Len(t, out.Past, 2)
	for _, o := range out.Active {
		assert.True(t, o.Status.IsActive())
	}
}

func TestUpdatePaymentStatus(t *testing.T) {
	svc, repo := newTestService(t, nil)
	order := seedOrder(t, repo, enums.OrderStatusPending, nil, time.Now())

	found, err := svc.UpdatePaymentStatus(context.Background(), *order.PaymentIntentID, enums.PaymentStatusFailed)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = svc.UpdatePaymentStatus(context.Background(), "pi_missing", enums.PaymentStatusFailed)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = svc.UpdatePaymentStatus(context.Background(), "pi_x", enums.PaymentStatus("refunded"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestDetailFromModelIncludesItems(t *testing.T) {
	date := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	order := sampleCheckout().toModel()
	order.ScheduledDate = &date
	order.Items = []models.OrderItem{{ID: uuid.New(), Quantity: 1, UnitPriceCents: 500, Service: &models.Service{Name: "Ironing"}}}

	detail := DetailFromModel(order)
	require.NotNil(t, detail.ScheduledDate)
	assert.Equal(t, "2026-04-02", *detail.ScheduledDate)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Ironing", detail.Items[0].ServiceName)
	assert.True(t, strings.HasPrefix(*detail.PaymentIntentID, "pi_"))
}
