package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Customer{}, &models.Service{}, &models.Order{}, &models.OrderItem{}))
	return conn
}

func sampleCheckout() CheckoutOrder {
	return CheckoutOrder{
		ContactName:      "Jane Doe",
		ContactEmail:     "jane@example.com",
		ContactPhone:     "404-555-0101",
		Weight:           enums.Weight11To20,
		ServiceType:      enums.ServiceTypeDelivery,
		SchedulingOption: enums.SchedulingASAP,
		AddressLine1:     "12 Peachtree St",
		City:             "Atlanta",
		State:            "GA",
		ZipCode:          "30303",
		Detergent:        enums.DetergentTide,
		WaterTemp:        enums.WaterTempCold,
		DryTemp:          enums.DryTempMedium,
		BleachOption:     enums.BleachNone,
		DryerSheets:      true,
		Scent:            enums.ScentLavender,
		TotalAmountCents: 2713,
		PaymentIntentID:  "pi_" + uuid.NewString(),
	}
}

func seedOrder(t *testing.T, repo Repository, status enums.OrderStatus, customerID *uuid.UUID, createdAt time.Time) *models.Order {
	t.Helper()
	input := sampleCheckout()
	input.CustomerID = customerID
	order := input.toModel()
	order.Status = status
	order.CreatedAt = createdAt
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestRepositoryCreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	svc := models.Service{Name: "Wash & Fold", PriceCents: 175, IsActive: true}
	require.NoError(t, db.Create(&svc).Error)

	order := seedOrder(t, repo, enums.OrderStatusPending, nil, time.Now())
	require.NoError(t, db.Create(&models.OrderItem{OrderID: order.ID, ServiceID: svc.ID, Quantity: 2, UnitPriceCents: 175}).Error)

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusSucceeded, found.PaymentStatus)
	assert.True(t, found.DryerSheets)
	require.NotNil(t, found.Scent)
	assert.Equal(t, enums.ScentLavender, *found.Scent)
	require.Len(t, found.Items, 1)
	require.NotNil(t, found.Items[0].Service)
	assert.Equal(t, "Wash & Fold", found.Items[0].Service.Name)

	byIntent, err := repo.FindByPaymentIntent(ctx, *order.PaymentIntentID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byIntent.ID)
}

func TestRepositoryListFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		seedOrder(t, repo, enums.OrderStatusPending, nil, base.Add(time.Duration(i)*time.Hour))
	}
	seedOrder(t, repo, enums.OrderStatusCompleted, nil, base.Add(5*time.Hour))

	pending := enums.OrderStatusPending
	rows, err := repo.List(ctx, ListFilters{Status: &pending}, nil, 2)
	require.NoError(t, err)
	require.Len(t, rows, 3, "limit plus look-ahead row")
	assert.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))

	all, err := repo.List(ctx, ListFilters{}, nil, 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestRepositoryUpdatesAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	order := seedOrder(t, repo, enums.OrderStatusPending, nil, time.Now())

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusProcessing))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), enums.OrderStatusProcessing), gorm.ErrRecordNotFound)

	n, err := repo.UpdatePaymentStatus(ctx, *order.PaymentIntentID, enums.PaymentStatusFailed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.UpdatePaymentStatus(ctx, "pi_unknown", enums.PaymentStatusFailed)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, repo.Delete(ctx, order.ID))
	assert.ErrorIs(t, repo.Delete(ctx, order.ID), gorm.ErrRecordNotFound)
}
