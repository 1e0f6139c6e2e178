package test

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/canteen/internal/domain/model"
)

// OrderFacadeStub provides controllable behaviour for customer order endpoints.
type OrderFacadeStub struct {
	PlaceFn  func(context.Context, model.OrderDraft) (int64, error)
	CancelFn func(context.Context, int64) error
	StatusFn func(context.Context, int64) (*model.OrderView, error)
}

// PlaceOrder delegates to provided function or returns order id 1.
func (s OrderFacadeStub) PlaceOrder(ctx context.Context, draft model.OrderDraft) (int64, error) {
	if s.PlaceFn != nil {
		return s.PlaceFn(ctx, draft)
	}
	return 1, nil
}

// CancelOrder succeeds unless configured otherwise.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, orderID int64) error {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, orderID)
	}
	return nil
}

// OrderStatus returns a pending view of the requested order by default.
func (s OrderFacadeStub) OrderStatus(ctx context.Context, orderID int64) (*model.OrderView, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, orderID)
	}
	return &model.OrderView{
		OrderID:      orderID,
		CustomerName: "Asha",
		TotalPrice:   decimal.RequireFromString("40"),
		Status:       model.OrderStatusPending,
		OrderDate:    time.Unix(0, 0).UTC(),
		Items:        []model.ItemView{{Name: "Masala Dosa", Quantity: 1, PricePerItem: decimal.RequireFromString("40")}},
	}, nil
}

// AdminFacadeStub simulates staff operations.
type AdminFacadeStub struct {
	DashboardFn  func(context.Context) ([]model.Order, error)
	MarkReadyFn  func(context.Context, int64) (*model.ArchivedOrder, error)
	OrderItemsFn func(context.Context, int64) ([]model.ItemView, error)
	ResetFn      func(context.Context) error
	HistoryFn    func(context.Context) (*model.SalesReport, error)
}

// Dashboard returns configured orders or none.
func (s AdminFacadeStub) Dashboard(ctx context.Context) ([]model.Order, error) {
	if s.DashboardFn != nil {
		return s.DashboardFn(ctx)
	}
	return nil, nil
}

// MarkReady archives the order on time by default.
func (s AdminFacadeStub) MarkReady(ctx context.Context, orderID int64) (*model.ArchivedOrder, error) {
	if s.MarkReadyFn != nil {
		return s.MarkReadyFn(ctx, orderID)
	}
	return &model.ArchivedOrder{OrderID: orderID, CompletionTime: time.Unix(0, 0).UTC()}, nil
}

// OrderItems returns configured items or none.
func (s AdminFacadeStub) OrderItems(ctx context.Context, orderID int64) ([]model.ItemView, error) {
	if s.OrderItemsFn != nil {
		return s.OrderItemsFn(ctx, orderID)
	}
	return nil, nil
}

// ResetDay succeeds unless configured otherwise.
func (s AdminFacadeStub) ResetDay(ctx context.Context) error {
	if s.ResetFn != nil {
		return s.ResetFn(ctx)
	}
	return nil
}

// SalesHistory returns an empty report by default.
func (s AdminFacadeStub) SalesHistory(ctx context.Context) (*model.SalesReport, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx)
	}
	return &model.SalesReport{TotalSales: decimal.Zero}, nil
}

// MenuFacadeStub simulates catalog maintenance.
type MenuFacadeStub struct {
	MenuFn      func(context.Context) ([]model.MenuItem, error)
	StatusFn    func(context.Context) (model.CanteenStatus, error)
	CreateFn    func(context.Context, model.MenuItem) (*model.MenuItem, error)
	UpdateFn    func(context.Context, model.MenuItem) error
	DeleteFn    func(context.Context, int64) error
	SetStatusFn func(context.Context, model.CanteenStatus) error
}

// Menu returns configured items or none.
func (s MenuFacadeStub) Menu(ctx context.Context) ([]model.MenuItem, error) {
	if s.MenuFn != nil {
		return s.MenuFn(ctx)
	}
	return nil, nil
}

// CanteenStatus reports OPEN by default.
func (s MenuFacadeStub) CanteenStatus(ctx context.Context) (model.CanteenStatus, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx)
	}
	return model.CanteenOpen, nil
}

// CreateMenuItem echoes the item with id 1.
func (s MenuFacadeStub) CreateMenuItem(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, item)
	}
	item.ID = 1
	return &item, nil
}

// UpdateMenuItem succeeds unless configured otherwise.
func (s MenuFacadeStub) UpdateMenuItem(ctx context.Context, item model.MenuItem) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, item)
	}
	return nil
}

// DeleteMenuItem succeeds unless configured otherwise.
func (s MenuFacadeStub) DeleteMenuItem(ctx context.Context, itemID int64) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, itemID)
	}
	return nil
}

// SetCanteenStatus succeeds unless configured otherwise.
func (s MenuFacadeStub) SetCanteenStatus(ctx context.Context, status model.CanteenStatus) error {
	if s.SetStatusFn != nil {
		return s.SetStatusFn(ctx, status)
	}
	return nil
}

// HealthCheckerStub reports the configured error.
type HealthCheckerStub struct {
	Err error
}

// HealthCheck returns Err.
func (s HealthCheckerStub) HealthCheck(context.Context) error {
	return s.Err
}

// SweeperStub counts overdue sweeps requested by the background worker.
type SweeperStub struct {
	Fn    func(context.Context) (int64, error)
	calls atomic.Int32
}

// SweepOverdue delegates to Fn and records the call.
func (s *SweeperStub) SweepOverdue(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	if s.Fn != nil {
		return s.Fn(ctx)
	}
	return 0, nil
}

// Calls returns the number of sweeps performed so far.
func (s *SweeperStub) Calls() int {
	return int(s.calls.Load())
}
