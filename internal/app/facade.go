package app

import (
	"context"

	"github.com/polkiloo/canteen/internal/domain/model"
	"github.com/polkiloo/canteen/internal/domain/repository"
	pkgAuth "github.com/polkiloo/canteen/internal/pkg/auth"
	"github.com/polkiloo/canteen/internal/server/http/handlers"
	"github.com/polkiloo/canteen/internal/usecase"
	"github.com/polkiloo/canteen/internal/worker"
)

// CanteenFacade is the single entry point used by the HTTP layer and the sweeper.
type CanteenFacade struct {
	auth      *usecase.AuthUseCase
	lifecycle usecase.OrderLifecycle
	query     *usecase.QueryService
	menu      *usecase.MenuUseCase
	health    repository.HealthChecker
}

func NewCanteenFacade(auth *usecase.AuthUseCase, lifecycle usecase.OrderLifecycle, query *usecase.QueryService, menu *usecase.MenuUseCase, health repository.HealthChecker) *CanteenFacade {
	return &CanteenFacade{auth: auth, lifecycle: lifecycle, query: query, menu: menu, health: health}
}

func (f *CanteenFacade) Authenticate(ctx context.Context, username, password string) (string, error) {
	return f.auth.Authenticate(ctx, username, password)
}

func (f *CanteenFacade) ParseToken(token string) (pkgAuth.Principal, error) {
	return f.auth.ParseToken(token)
}

func (f *CanteenFacade) PlaceOrder(ctx context.Context, draft model.OrderDraft) (int64, error) {
	return f.lifecycle.PlaceOrder(ctx, draft)
}

func (f *CanteenFacade) CancelOrder(ctx context.Context, orderID int64) error {
	return f.lifecycle.CancelOrder(ctx, orderID)
}

func (f *CanteenFacade) OrderStatus(ctx context.Context, orderID int64) (*model.OrderView, error) {
	return f.query.OrderStatus(ctx, orderID)
}

func (f *CanteenFacade) Menu(ctx context.Context) ([]model.MenuItem, error) {
	return f.menu.List(ctx)
}

func (f *CanteenFacade) CanteenStatus(ctx context.Context) (model.CanteenStatus, error) {
	return f.menu.CanteenStatus(ctx)
}

func (f *CanteenFacade) Dashboard(ctx context.Context) ([]model.Order, error) {
	return f.query.Dashboard(ctx)
}

func (f *CanteenFacade) MarkReady(ctx context.Context, orderID int64) (*model.ArchivedOrder, error) {
	return f.lifecycle.MarkReady(ctx, orderID)
}

func (f *CanteenFacade) OrderItems(ctx context.Context, orderID int64) ([]model.ItemView, error) {
	return f.query.OrderItems(ctx, orderID)
}

func (f *CanteenFacade) ResetDay(ctx context.Context) error {
	return f.lifecycle.ResetDay(ctx)
}

func (f *CanteenFacade) SalesHistory(ctx context.Context) (*model.SalesReport, error) {
	return f.query.SalesHistory(ctx)
}

func (f *CanteenFacade) CreateMenuItem(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	return f.menu.Create(ctx, item)
}

func (f *CanteenFacade) UpdateMenuItem(ctx context.Context, item model.MenuItem) error {
	return f.menu.Update(ctx, item)
}

func (f *CanteenFacade) DeleteMenuItem(ctx context.Context, itemID int64) error {
	return f.menu.Delete(ctx, itemID)
}

func (f *CanteenFacade) SetCanteenStatus(ctx context.Context, status model.CanteenStatus) error {
	return f.menu.SetCanteenStatus(ctx, status)
}

func (f *CanteenFacade) SweepOverdue(ctx context.Context) (int64, error) {
	return f.lifecycle.SweepOverdue(ctx)
}

func (f *CanteenFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

var (
	_ handlers.CanteenFacade = (*CanteenFacade)(nil)
	_ worker.OverdueSweeper  = (*CanteenFacade)(nil)
)
