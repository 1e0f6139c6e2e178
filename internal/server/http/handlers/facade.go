package handlers

import (
	"context"

	"github.com/polkiloo/canteen/internal/domain/model"
	pkgAuth "github.com/polkiloo/canteen/internal/pkg/auth"
)

// AuthFacade describes staff authentication required by handlers.
type AuthFacade interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	ParseToken(token string) (pkgAuth.Principal, error)
}

// OrderFacade encapsulates the customer order operations.
type OrderFacade interface {
	PlaceOrder(ctx context.Context, draft model.OrderDraft) (int64, error)
	CancelOrder(ctx context.Context, orderID int64) error
	OrderStatus(ctx context.Context, orderID int64) (*model.OrderView, error)
}

// AdminFacade provides the staff views and transitions.
type AdminFacade interface {
	Dashboard(ctx context.Context) ([]model.Order, error)
	MarkReady(ctx context.Context, orderID int64) (*model.ArchivedOrder, error)
	OrderItems(ctx context.Context, orderID int64) ([]model.ItemView, error)
	ResetDay(ctx context.Context) error
	SalesHistory(ctx context.Context) (*model.SalesReport, error)
}

// MenuFacade exposes the catalog and the canteen switch.
type MenuFacade interface {
	Menu(ctx context.Context) ([]model.MenuItem, error)
	CanteenStatus(ctx context.Context) (model.CanteenStatus, error)
	CreateMenuItem(ctx context.Context, item model.MenuItem) (*model.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item model.MenuItem) error
	DeleteMenuItem(ctx context.Context, itemID int64) error
	SetCanteenStatus(ctx context.Context, status model.CanteenStatus) error
}

// HealthFacade reports backing store reachability.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// CanteenFacade aggregates the full set of operations used across handlers.
type CanteenFacade interface {
	AuthFacade
	OrderFacade
	AdminFacade
	MenuFacade
	HealthFacade
}
