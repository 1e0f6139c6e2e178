package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
	"github.com/polkiloo/canteen/internal/domain/repository"
)

const (
	DefaultCancelWindow    = 10 * time.Second
	DefaultPreparationTime = 5 * time.Minute
)

// OrderLifecycle is the set of order state transitions exposed to callers.
type OrderLifecycle interface {
	PlaceOrder(ctx context.Context, draft model.OrderDraft) (int64, error)
	CancelOrder(ctx context.Context, orderID int64) error
	SweepOverdue(ctx context.Context) (int64, error)
	MarkReady(ctx context.Context, orderID int64) (*model.ArchivedOrder, error)
	ResetDay(ctx context.Context) error
}

var _ OrderLifecycle = (*LifecycleEngine)(nil)

// LifecycleOptions tunes the lifecycle policies.
type LifecycleOptions struct {
	CancelWindow    time.Duration
	DefaultPrepTime time.Duration
	Now             func() time.Time
}

// LifecycleEngine owns every status transition of an order: placement,
// cancellation, auto-completion, archival and the end-of-day reset.
type LifecycleEngine struct {
	tx       repository.Transactor
	store    repository.Factory
	validate *validatorv10.Validate
	opts     LifecycleOptions
	logger   *slog.Logger
}

// NewLifecycleEngine constructs LifecycleEngine. Zero options fall back to defaults.
func NewLifecycleEngine(tx repository.Transactor, store repository.Factory, validate *validatorv10.Validate, opts LifecycleOptions, logger *slog.Logger) *LifecycleEngine {
	if opts.CancelWindow <= 0 {
		opts.CancelWindow = DefaultCancelWindow
	}
	if opts.DefaultPrepTime <= 0 {
		opts.DefaultPrepTime = DefaultPreparationTime
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LifecycleEngine{
		tx:       tx,
		store:    store,
		validate: validate,
		opts:     opts,
		logger:   logger.With("component", "order_lifecycle"),
	}
}

// PlaceOrder validates the draft and stores a Pending order together with its
// line items in one transaction. It returns the assigned order id.
func (e *LifecycleEngine) PlaceOrder(ctx context.Context, draft model.OrderDraft) (int64, error) {
	draft.CustomerName = strings.TrimSpace(draft.CustomerName)
	if err := e.validate.Struct(draft); err != nil {
		return 0, validationError(err)
	}

	lines, err := mergeCart(draft.Cart)
	if err != nil {
		return 0, err
	}
	now := e.opts.Now()

	var orderID int64
	err = e.tx.WithinTransaction(ctx, func(repos repository.Factory) error {
		catalog, err := repos.Menu().Lookup(ctx, itemIDs(lines))
		if err != nil {
			return err
		}

		estimated := now.Add(e.preparationTime(lines, catalog))
		order := model.Order{
			CustomerName:            draft.CustomerName,
			TotalPrice:              draft.TotalPrice,
			Status:                  model.OrderStatusPending,
			OrderDate:               now,
			EstimatedCompletionTime: &estimated,
		}
		orderID, err = repos.Orders().Create(ctx, order, lines)
		return err
	})
	if err != nil {
		return 0, e.fail(ctx, "place order", 0, err)
	}

	e.logger.InfoContext(ctx, "order placed", slog.Int64("order_id", orderID), slog.Int("items", len(lines)))
	return orderID, nil
}

// CancelOrder moves a Pending order to Cancelled while the cancellation window
// measured from its order date is still open.
func (e *LifecycleEngine) CancelOrder(ctx context.Context, orderID int64) error {
	now := e.opts.Now()
	err := e.tx.WithinTransaction(ctx, func(repos repository.Factory) error {
		order, err := repos.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status.Final() {
			return domainErrors.ErrInvalidState
		}
		if !order.CancellableAt(now, e.opts.CancelWindow) {
			return domainErrors.ErrWindowExpired
		}

		changed, err := repos.Orders().TransitionStatus(ctx, orderID, model.OrderStatusPending, model.OrderStatusCancelled)
		if err != nil {
			return err
		}
		if !changed {
			return domainErrors.ErrInvalidState
		}
		return nil
	})
	if err != nil {
		return e.fail(ctx, "cancel order", orderID, err)
	}

	e.logger.InfoContext(ctx, "order cancelled", slog.Int64("order_id", orderID))
	return nil
}

// SweepOverdue completes every Pending order whose estimate has passed in a
// single set based update. Orders without an estimate are left alone.
func (e *LifecycleEngine) SweepOverdue(ctx context.Context) (int64, error) {
	completed, err := e.store.Orders().CompleteOverdue(ctx, e.opts.Now())
	if err != nil {
		return 0, e.fail(ctx, "sweep overdue orders", 0, err)
	}
	if completed > 0 {
		e.logger.InfoContext(ctx, "overdue orders completed", slog.Int64("count", completed))
	}
	return completed, nil
}

// MarkReady moves an order from the active store into the archive. The
// stale archive entry is removed first so that a retry after a failed
// attempt never produces a duplicate.
func (e *LifecycleEngine) MarkReady(ctx context.Context, orderID int64) (*model.ArchivedOrder, error) {
	now := e.opts.Now()

	var archived model.ArchivedOrder
	err := e.tx.WithinTransaction(ctx, func(repos repository.Factory) error {
		if err := repos.Archive().Delete(ctx, orderID); err != nil {
			return err
		}

		order, err := repos.Orders().GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status == model.OrderStatusCancelled {
			return domainErrors.ErrInvalidState
		}

		items, err := repos.Orders().LineItems(ctx, orderID)
		if err != nil {
			return err
		}

		archived = model.NewArchivedOrder(*order, items, now)
		if err := repos.Archive().Insert(ctx, archived); err != nil {
			return err
		}
		return repos.Orders().Delete(ctx, orderID)
	})
	if err != nil {
		return nil, e.fail(ctx, "archive order", orderID, err)
	}

	e.logger.InfoContext(ctx, "order archived",
		slog.Int64("order_id", orderID),
		slog.Bool("was_late", archived.WasLate),
	)
	return &archived, nil
}

// ResetDay wipes the active store and the archive and restarts identifiers.
func (e *LifecycleEngine) ResetDay(ctx context.Context) error {
	err := e.tx.WithinTransaction(ctx, func(repos repository.Factory) error {
		if err := repos.Orders().Truncate(ctx); err != nil {
			return err
		}
		return repos.Archive().Truncate(ctx)
	})
	if err != nil {
		return e.fail(ctx, "reset day", 0, err)
	}

	e.logger.WarnContext(ctx, "daily data reset")
	return nil
}

func (e *LifecycleEngine) preparationTime(lines []model.LineItem, catalog map[int64]model.MenuItem) time.Duration {
	var (
		longest  time.Duration
		resolved bool
	)
	for _, line := range lines {
		item, ok := catalog[line.ItemID]
		if !ok {
			continue
		}
		resolved = true
		if prep := item.PreparationTime(); prep > longest {
			longest = prep
		}
	}
	if !resolved {
		return e.opts.DefaultPrepTime
	}
	return longest
}

// fail logs store failures and converts them to ErrPersistence. Domain
// outcomes are returned unchanged.
func (e *LifecycleEngine) fail(ctx context.Context, op string, orderID int64, err error) error {
	if domainErrors.IsDomain(err) && !errors.Is(err, domainErrors.ErrPersistence) {
		return err
	}
	attrs := []any{slog.String("op", op), slog.String("error", err.Error())}
	if orderID != 0 {
		attrs = append(attrs, slog.Int64("order_id", orderID))
	}
	e.logger.ErrorContext(ctx, "lifecycle operation failed", attrs...)
	return domainErrors.Persistence(err)
}

// mergeCart folds repeated item ids into one line, summing quantities and
// keeping the first quoted price. A merged quantity above
// model.MaxLineQuantity is a validation error.
func mergeCart(cart []model.CartLine) ([]model.LineItem, error) {
	lines := make([]model.LineItem, 0, len(cart))
	index := make(map[int64]int, len(cart))
	for _, entry := range cart {
		if i, ok := index[entry.ItemID]; ok {
			if entry.Quantity > model.MaxLineQuantity-lines[i].Quantity {
				return nil, domainErrors.Validation("item %d quantity must be at most %d", entry.ItemID, model.MaxLineQuantity)
			}
			lines[i].Quantity += entry.Quantity
			continue
		}
		index[entry.ItemID] = len(lines)
		lines = append(lines, model.LineItem{
			ItemID:       entry.ItemID,
			Quantity:     entry.Quantity,
			PricePerItem: entry.Price,
		})
	}
	return lines, nil
}

func itemIDs(lines []model.LineItem) []int64 {
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ItemID)
	}
	return ids
}
