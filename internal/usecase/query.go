package usecase

import (
	"context"
	"errors"
	"log/slog"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
	"github.com/polkiloo/canteen/internal/domain/repository"
)

// Sweeper completes overdue orders before a listing is served.
type Sweeper interface {
	SweepOverdue(ctx context.Context) (int64, error)
}

// QueryService serves read only views across the active store and the archive.
type QueryService struct {
	store   repository.Factory
	sweeper Sweeper
	logger  *slog.Logger
}

// NewQueryService constructs QueryService.
func NewQueryService(store repository.Factory, sweeper Sweeper, logger *slog.Logger) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{store: store, sweeper: sweeper, logger: logger.With("component", "order_query")}
}

// OrderStatus resolves the order in the active store first and falls back to
// the archive, where every order is reported as Completed. An active row seen
// without line items was archived between the two reads, so it is resolved
// through the archive as well.
func (q *QueryService) OrderStatus(ctx context.Context, orderID int64) (*model.OrderView, error) {
	order, err := q.store.Orders().GetByID(ctx, orderID)
	switch {
	case err == nil:
		items, err := q.store.Orders().LineItems(ctx, orderID)
		if err != nil {
			return nil, q.fail(ctx, "order status", err)
		}
		if len(items) > 0 {
			view := model.ViewOfOrder(*order, items)
			return &view, nil
		}
		q.logger.DebugContext(ctx, "active order lost its items, reading archive", slog.Int64("order_id", orderID))
	case !errors.Is(err, domainErrors.ErrNotFound):
		return nil, q.fail(ctx, "order status", err)
	}

	archived, err := q.store.Archive().GetByID(ctx, orderID)
	if err != nil {
		return nil, q.fail(ctx, "order status", err)
	}
	view := model.ViewOfArchive(*archived)
	return &view, nil
}

// Dashboard sweeps overdue orders and lists the active store by id.
func (q *QueryService) Dashboard(ctx context.Context) ([]model.Order, error) {
	if q.sweeper != nil {
		if _, err := q.sweeper.SweepOverdue(ctx); err != nil {
			return nil, err
		}
	}
	orders, err := q.store.Orders().List(ctx)
	if err != nil {
		return nil, q.fail(ctx, "dashboard", err)
	}
	return orders, nil
}

// OrderItems returns the line items of an order, preferring the archive snapshot.
func (q *QueryService) OrderItems(ctx context.Context, orderID int64) ([]model.ItemView, error) {
	archived, err := q.store.Archive().Items(ctx, orderID)
	if err != nil {
		return nil, q.fail(ctx, "order items", err)
	}
	if len(archived) > 0 {
		views := make([]model.ItemView, 0, len(archived))
		for _, item := range archived {
			views = append(views, model.ItemView{Name: item.ItemName, Quantity: item.Quantity, PricePerItem: item.PricePerItem})
		}
		return views, nil
	}

	active, err := q.store.Orders().LineItems(ctx, orderID)
	if err != nil {
		return nil, q.fail(ctx, "order items", err)
	}
	if len(active) == 0 {
		return nil, domainErrors.ErrNotFound
	}
	views := make([]model.ItemView, 0, len(active))
	for _, item := range active {
		views = append(views, model.ItemView{Name: item.Name, Quantity: item.Quantity, PricePerItem: item.PricePerItem})
	}
	return views, nil
}

// SalesHistory lists the archive with the sum of its totals.
func (q *QueryService) SalesHistory(ctx context.Context) (*model.SalesReport, error) {
	orders, err := q.store.Archive().List(ctx)
	if err != nil {
		return nil, q.fail(ctx, "sales history", err)
	}
	total, err := q.store.Archive().TotalSales(ctx)
	if err != nil {
		return nil, q.fail(ctx, "sales history", err)
	}
	return &model.SalesReport{Orders: orders, TotalSales: total}, nil
}

func (q *QueryService) fail(ctx context.Context, op string, err error) error {
	if domainErrors.IsDomain(err) && !errors.Is(err, domainErrors.ErrPersistence) {
		return err
	}
	q.logger.ErrorContext(ctx, "query failed", slog.String("op", op), slog.String("error", err.Error()))
	return domainErrors.Persistence(err)
}
