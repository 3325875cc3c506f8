package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/washday/laundry-backend/internal/pricing"
	"github.com/washday/laundry-backend/internal/repo"
	"github.com/washday/laundry-backend/pkg/db/models"
	"github.com/washday/laundry-backend/pkg/enums"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
)

// Window is the length of each growth comparison period.
const Window = 30 * 24 * time.Hour

var hundred = decimal.NewFromInt(100)

// Stats is the admin dashboard summary. Growth values are percentages
// rounded to one decimal place.
type Stats struct {
	TotalOrders    int64   `json:"total_orders"`
	TotalCustomers int64   `json:"total_customers"`
	TotalServices  int64   `json:"total_services"`
	RevenueCents   int64   `json:"revenue_cents"`
	Revenue        string  `json:"revenue"`
	OrderGrowth    float64 `json:"order_growth"`
	CustomerGrowth float64 `json:"customer_growth"`
	RevenueGrowth  float64 `json:"revenue_growth"`
	GrowthRate     float64 `json:"growth_rate"`
}

type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo.Base
	now func() time.Time
}

func NewService(db *gorm.DB, now func() time.Time) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	if now == nil {
		now = time.Now
	}
	return &service{Base: repo.NewBase(db), now: now}, nil
}

type window struct {
	from, to  time.Time
	inclusive bool
}

func (w window) apply(q *gorm.DB) *gorm.DB {
	q = q.Where("created_at >= ?", w.from)
	if w.inclusive {
		return q.Where("created_at <= ?", w.to)
	}
	return q.Where("created_at < ?", w.to)
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	now := s.now().UTC()
	recent := window{from: now.Add(-Window), to: now, inclusive: true}
	previous := window{from: now.Add(-2 * Window), to: now.Add(-Window)}

	var out Stats
	var err error
	if out.TotalOrders, err = s.count(ctx, &models.Order{}, nil); err != nil {
		return nil, err
	}
	if out.TotalCustomers, err = s.count(ctx, &models.Customer{}, nil); err != nil {
		return nil, err
	}
	if out.TotalServices, err = s.count(ctx, &models.Service{}, nil); err != nil {
		return nil, err
	}
	if out.RevenueCents, err = s.revenue(ctx, nil); err != nil {
		return nil, err
	}
	out.Revenue = pricing.FormatAmount(pricing.FromMinorUnits(out.RevenueCents))

	recentOrders, err := s.count(ctx, &models.Order{}, &recent)
	if err != nil {
		return nil, err
	}
	previousOrders, err := s.count(ctx, &models.Order{}, &previous)
	if err != nil {
		return nil, err
	}
	recentCustomers, err := s.count(ctx, &models.Customer{}, &recent)
	if err != nil {
		return nil, err
	}
	previousCustomers, err := s.count(ctx, &models.Customer{}, &previous)
	if err != nil {
		return nil, err
	}
	recentRevenue, err := s.revenue(ctx, &recent)
	if err != nil {
		return nil, err
	}
	previousRevenue, err := s.revenue(ctx, &previous)
	if err != nil {
		return nil, err
	}

	orderGrowth := Growth(decimal.NewFromInt(recentOrders), decimal.NewFromInt(previousOrders))
	customerGrowth := Growth(decimal.NewFromInt(recentCustomers), decimal.NewFromInt(previousCustomers))
	revenueGrowth := Growth(decimal.NewFromInt(recentRevenue), decimal.NewFromInt(previousRevenue))
	overall := orderGrowth.Add(customerGrowth).Add(revenueGrowth).Div(decimal.NewFromInt(3))

	out.OrderGrowth = percent(orderGrowth)
	out.CustomerGrowth = percent(customerGrowth)
	out.RevenueGrowth = percent(revenueGrowth)
	out.GrowthRate = percent(overall)
	return &out, nil
}

// Growth is the percent change from previous to current. With nothing in the
// previous window it is 100 when anything happened, otherwise 0.
func Growth(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsPositive() {
		return current.Sub(previous).Div(previous).Mul(hundred)
	}
	if current.IsPositive() {
		return hundred
	}
	return decimal.Zero
}

func percent(d decimal.Decimal) float64 {
	return d.Round(1).InexactFloat64()
}

func (s *service) count(ctx context.Context, model any, w *window) (int64, error) {
	q := s.DB(ctx).Model(model)
	if w != nil {
		q = w.apply(q)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "dashboard count")
	}
	return n, nil
}

// revenue sums completed order totals in cents.
func (s *service) revenue(ctx context.Context, w *window) (int64, error) {
	q := s.DB(ctx).Model(&models.Order{}).Where("status = ?", enums.OrderStatusCompleted)
	if w != nil {
		q = w.apply(q)
	}
	var total int64
	if err := q.Select("COALESCE(SUM(total_amount_cents), 0)").Scan(&total).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "dashboard revenue")
	}
	return total, nil
}
