package deliveries

import (
	"context"
	"encoding/json"
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
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
	"github.com/washday/laundry-backend/pkg/pagination"
	"github.com/washday/laundry-backend/pkg/types"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Customer{}, &models.Order{}, &models.Delivery{}))

	svc, err := NewService(NewRepository(conn), logger.Nop())
	require.NoError(t, err)
	return svc, conn
}

func strPtr(v string) *string { return &v }

func TestCreateDefaultsToScheduled(t *testing.T) {
	svc, _ := newTestService(t)
	when := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)

	created, err := svc.Create(context.Background(), CreateDeliveryDTO{
		CustomerName:  " John Doe ",
		Address:       "123 Main St, Atlanta, GA",
		DriverName:    strPtr("Mike Johnson"),
		ScheduledTime: &when,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.DeliveryStatusScheduled, created.Status)
	assert.Equal(t, "John Doe", created.CustomerName)
	require.NotNil(t, created.ScheduledTime)
	assert.True(t, created.ScheduledTime.Equal(when))
}

func TestCreateValidates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateDeliveryDTO{Status: "lost"})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "customer_name")
	assert.Contains(t, details, "address")
	assert.Contains(t, details, "status")

	missing := uuid.New()
	_, err = svc.Create(ctx, CreateDeliveryDTO{OrderID: &missing, CustomerName: "Jane", Address: "1 Elm"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListFiltersAndSearch(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seed := []CreateDeliveryDTO{
		{CustomerName: "John Doe", Address: "123 Main St", DriverName: strPtr("Mike Johnson")},
		{CustomerName: "Jane Smith", Address: "456 Elm St", DriverName: strPtr("Sarah Lee"), Status: "delivered"},
		{CustomerName: "Bob Brown", Address: "789 Oak St"},
	}
	for _, in := range seed {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, ListFilters{}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, all.Deliveries, 3)

	delivered := enums.DeliveryStatusDelivered
	byStatus, err := svc.List(ctx, ListFilters{Status: &delivered}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, byStatus.Deliveries, 1)
	assert.Equal(t, "Jane Smith", byStatus.Deliveries[0].CustomerName)

	byDriver, err := svc.List(ctx, ListFilters{Search: "mike"}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, byDriver.Deliveries, 1)
	assert.Equal(t, "John Doe", byDriver.Deliveries[0].CustomerName)

	byAddress, err := svc.List(ctx, ListFilters{Search: "OAK"}, pagination.Params{Limit: 10})
	require.NoError(t, err)
	require.Len(t, byAddress.Deliveries, 1)

	page, err := svc.List(ctx, ListFilters{}, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Deliveries, 2)
	assert.NotEmpty(t, page.NextCursor)
}

func TestUpdateStatusAndDelete(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateDeliveryDTO{CustomerName: "Alice Green", Address: "321 Pine St"})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, created.ID, "in_transit")
	require.NoError(t, err)
	assert.Equal(t, enums.DeliveryStatusInTransit, updated.Status)

	_, err = svc.UpdateStatus(ctx, created.ID, "teleported")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	driver := "Emma Davis"
	updated, err = svc.Update(ctx, created.ID, UpdateDeliveryDTO{DriverName: &driver})
	require.NoError(t, err)
	require.NotNil(t, updated.DriverName)
	assert.Equal(t, driver, *updated.DriverName)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, created.ID), pkgerrors.CodeNotFound))
}

func TestUpdateLinksAndUnlinksOrder(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	order := &models.Order{
		ContactName:      "Jane", ContactEmail: "jane@example.com", ContactPhone: "555-0100",
		TotalAmountCents: 2713, WeightBracket: enums.Weight11To20, ServiceType: enums.ServiceTypePickup,
		SchedulingOption: enums.SchedulingASAP, AddressLine1: "1 Peachtree St", City: "Atlanta", State: "GA", ZipCode: "30301",
		Detergent:        enums.DetergentTide, WaterTemp: enums.WaterTempCold, DryTemp: enums.DryTempMedium, BleachOption: enums.BleachNone,
	}
	require.NoError(t, conn.Create(order).Error)

	created, err := svc.Create(ctx, CreateDeliveryDTO{CustomerName: "Jane", Address: "1 Peachtree St"})
	require.NoError(t, err)
	assert.Nil(t, created.OrderID)

	var link UpdateDeliveryDTO
	require.NoError(t, json.Unmarshal([]byte(`{"order_id":"`+order.ID.String()+`"}`), &link))
	updated, err := svc.Update(ctx, created.ID, link)
	require.NoError(t, err)
	require.NotNil(t, updated.OrderID)
	assert.Equal(t, order.ID, *updated.OrderID)

	// omitted field leaves the link alone
	driver := "Mike"
	updated, err = svc.Update(ctx, created.ID, UpdateDeliveryDTO{DriverName: &driver})
	require.NoError(t, err)
	require.NotNil(t, updated.OrderID)

	var unlink UpdateDeliveryDTO
	require.NoError(t, json.Unmarshal([]byte(`{"order_id":null}`), &unlink))
	updated, err = svc.Update(ctx, created.ID, unlink)
	require.NoError(t, err)
	assert.Nil(t, updated.OrderID)

	missing := uuid.New()
	_, err = svc.Update(ctx, created.ID, UpdateDeliveryDTO{OrderID: types.NullableUUID{Valid: true, Value: &missing}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
