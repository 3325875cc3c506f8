package dashboard

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
)

var fixedNow = time.Date(2026, 6, 30, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Customer{}, &models.Service{}, &models.Order{}))
	return conn
}

func seedOrder(t *testing.T, conn *gorm.DB, daysAgo int, status enums.OrderStatus, cents int64) {
	t.Helper()
	require.NoError(t, conn.Create(&models.Order{
		Status:           status,
		TotalAmountCents: cents,
		ContactName:      "Jane",
		ContactEmail:     "jane@example.com",
		PaymentStatus:    enums.PaymentStatusSucceeded,
		CreatedAt:        fixedNow.Add(-time.Duration(daysAgo) * 24 * time.Hour),
	}).Error)
}

func seedCustomer(t *testing.T, conn *gorm.DB, daysAgo int) {
	t.Helper()
	require.NoError(t, conn.Create(&models.Customer{
		Name:      "C",
		Email:     fmt.Sprintf("c%d@example.com", daysAgo),
		CreatedAt: fixedNow.Add(-time.Duration(daysAgo) * 24 * time.Hour),
	}).Error)
}

func TestStatsComputesGrowth(t *testing.T) {
	conn := newTestDB(t)

	// recent window: 3 orders, two completed for $30.00
	seedOrder(t, conn, 1, enums.OrderStatusCompleted, 1000)
	seedOrder(t, conn, 5, enums.OrderStatusCompleted, 2000)
	seedOrder(t, conn, 10, enums.OrderStatusPending, 5000)
	// previous window: 2 orders, one completed for $20.00
	seedOrder(t, conn, 40, enums.OrderStatusCompleted, 2000)
	seedOrder(t, conn, 45, enums.OrderStatusCancelled, 999)
	// outside both windows
	seedOrder(t, conn, 90, enums.OrderStatusCompleted, 500)

	seedCustomer(t, conn, 3)
	require.NoError(t, conn.Create(&models.Service{Name: "Wash & Fold", PriceCents: 175, IsActive: true}).Error)

	svc, err := NewService(conn, func() time.Time { return fixedNow })
	require.NoError(t, err)
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(6), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.TotalCustomers)
	assert.Equal(t, int64(1), stats.TotalServices)
	assert.Equal(t, int64(5500), stats.RevenueCents)
	assert.Equal(t, "55.00", stats.Revenue)

	assert.Equal(t, 50.0, stats.OrderGrowth)     // 3 vs 2
	assert.Equal(t, 50.0, stats.RevenueGrowth)   // 3000 vs 2000
	assert.Equal(t, 100.0, stats.CustomerGrowth) // 1 vs 0
	assert.Equal(t, 66.7, stats.GrowthRate)
}

func TestStatsEmpty(t *testing.T) {
	svc, err := NewService(newTestDB(t), func() time.Time { return fixedNow })
	require.NoError(t, err)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalOrders)
	assert.Equal(t, "0.00", stats.Revenue)
	assert.Zero(t, stats.GrowthRate)
}

func TestGrowth(t *testing.T) {
	d := decimal.NewFromInt
	cases := []struct {
		current, previous int64
		want              string
	}{
		{3, 2, "50"},
		{1, 3, "-66.7"},
		{0, 4, "-100"},
		{5, 0, "100"},
		{0, 0, "0"},
	}
	for _, tc := range cases {
		got := Growth(d(tc.current), d(tc.previous)).Round(1)
		assert.Equal(t, tc.want, got.String(), "%d vs %d", tc.current, tc.previous)
	}
}
