package repository

import (
	"context"
	"time"

	"github.com/polkiloo/canteen/internal/domain/model"
)

// OrderRepository describes persistence operations of the active order store.
type OrderRepository interface {
	Create(ctx context.Context, order model.Order, items []model.LineItem) (int64, error)
	GetByID(ctx context.Context, orderID int64) (*model.Order, error)
	// GetForUpdate reads the order and locks its row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, orderID int64) (*model.Order, error)
	LineItems(ctx context.Context, orderID int64) ([]model.LineItem, error)
	// TransitionStatus moves the order from one status to another and reports whether a row changed.
	TransitionStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) (bool, error)
	CompleteOverdue(ctx context.Context, now time.Time) (int64, error)
	List(ctx context.Context) ([]model.Order, error)
	Delete(ctx context.Context, orderID int64) error
	// Truncate removes every active order and restarts the identifier sequence.
	Truncate(ctx context.Context) error
}
