package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	internalorders "github.com/washday/laundry-backend/internal/orders"
	"github.com/washday/laundry-backend/pkg/enums"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/pagination"
)

type stubAdminOrders struct {
	listFn   func(ctx context.Context, filters internalorders.ListFilters, params pagination.Params) (*internalorders.OrderList, error)
	getFn    func(ctx context.Context, id uuid.UUID) (*internalorders.OrderDetail, error)
	statusFn func(ctx context.Context, id uuid.UUID, status string) (*internalorders.OrderDetail, error)
	deleted  []uuid.UUID
}

func (s *stubAdminOrders) List(ctx context.Context, filters internalorders.ListFilters, params pagination.Params) (*internalorders.OrderList, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filters, params)
	}
	return &internalorders.OrderList{}, nil
}

func (s *stubAdminOrders) Get(ctx context.Context, id uuid.UUID) (*internalorders.OrderDetail, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubAdminOrders) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*internalorders.OrderDetail, error) {
	if s.statusFn != nil {
		return s.statusFn(ctx, id, status)
	}
	return &internalorders.OrderDetail{}, nil
}

func (s *stubAdminOrders) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func adminOrdersRouter(svc adminOrderService) http.Handler {
	r := chi.NewRouter()
	r.Get("/orders", AdminOrders(svc, nil))
	r.Get("/orders/{orderId}", AdminOrderDetail(svc, nil))
	r.Patch("/orders/{orderId}/status", AdminOrderUpdateStatus(svc, nil))
	r.Delete("/orders/{orderId}", AdminOrderDelete(svc, nil))
	return r
}

func TestAdminOrdersListAppliesFilters(t *testing.T) {
	var gotFilters internalorders.ListFilters
	var gotParams pagination.Params
	svc := &stubAdminOrders{
		listFn: func(ctx context.Context, filters internalorders.ListFilters, params pagination.Params) (*internalorders.OrderList, error) {
			gotFilters = filters
			gotParams = params
			return &internalorders.OrderList{
				Orders:     []internalorders.OrderSummary{{ID: uuid.New(), Status: enums.OrderStatusPending}},
				NextCursor: "next",
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	adminOrdersRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?status=pending&limit=10&cursor=abc", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if gotFilters.Status == nil || *gotFilters.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending filter, got %+v", gotFilters)
	}
	if gotParams.Limit != 10 || gotParams.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", gotParams)
	}

	var envelope struct {
		Data internalorders.OrderList `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.NextCursor != "next" || len(envelope.Data.Orders) != 1 {
		t.Fatalf("unexpected body %+v", envelope.Data)
	}
}

func TestAdminOrdersListRejectsUnknownStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	adminOrdersRouter(&stubAdminOrders{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?status=shipped", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	adminOrdersRouter(&stubAdminOrders{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders?limit=1000", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversized limit got %d", rec.Code)
	}
}

func TestAdminOrderDetail(t *testing.T) {
	orderID := uuid.New()
	svc := &stubAdminOrders{
		getFn: func(ctx context.Context, id uuid.UUID) (*internalorders.OrderDetail, error) {
			if id != orderID {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return &internalorders.OrderDetail{OrderSummary: internalorders.OrderSummary{ID: orderID}}, nil
		},
	}
	router := adminOrdersRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminOrderUpdateStatus(t *testing.T) {
	var gotStatus string
	svc := &stubAdminOrders{
		statusFn: func(ctx context.Context, id uuid.UUID, status string) (*internalorders.OrderDetail, error) {
			gotStatus = status
			if _, err := enums.ParseOrderStatus(status); err != nil {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
			}
			return &internalorders.OrderDetail{OrderSummary: internalorders.OrderSummary{ID: id, Status: enums.OrderStatus(status)}}, nil
		},
	}
	router := adminOrdersRouter(svc)
	path := "/orders/" + uuid.NewString() + "/status"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, path, bytes.NewBufferString(`{"status":"completed"}`)))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if gotStatus != "completed" {
		t.Fatalf("expected completed got %s", gotStatus)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, path, bytes.NewBufferString(`{"status":"lost"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminOrderDelete(t *testing.T) {
	svc := &stubAdminOrders{}
	orderID := uuid.New()

	rec := httptest.NewRecorder()
	adminOrdersRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/orders/"+orderID.String(), nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	if len(svc.deleted) != 1 || svc.deleted[0] != orderID {
		t.Fatalf("expected delete of %s got %v", orderID, svc.deleted)
	}
}
