package observability

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
	"github.com/polkiloo/canteen/internal/usecase"
)

const instrumentationName = "github.com/polkiloo/canteen/internal/adapter/observability"

// Lifecycle decorates the order lifecycle with spans and transition counters.
type Lifecycle struct {
	inner   usecase.OrderLifecycle
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics lifecycleMetrics
}

type Option func(*Lifecycle)

func WithLogger(logger *slog.Logger) Option {
	return func(l *Lifecycle) {
		l.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(l *Lifecycle) {
		l.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(l *Lifecycle) {
		l.metrics = newLifecycleMetrics(m)
	}
}

// NewLifecycle wraps inner.
func NewLifecycle(inner usecase.OrderLifecycle, opts ...Option) *Lifecycle {
	l := &Lifecycle{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(instrumentationName),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.tracer == nil {
		l.tracer = nooptrace.NewTracerProvider().Tracer(instrumentationName)
	}
	return l
}

func (l *Lifecycle) PlaceOrder(ctx context.Context, draft model.OrderDraft) (int64, error) {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.PlaceOrder",
		trace.WithAttributes(attribute.Int("order.cart_lines", len(draft.Cart))))
	defer span.End()

	id, err := l.inner.PlaceOrder(ctx, draft)
	if err != nil {
		return 0, l.handleError(ctx, span, "place", err)
	}
	span.SetAttributes(attribute.Int64("order.id", id))
	l.metrics.record(ctx, "place", "ok", 1)
	return id, nil
}

func (l *Lifecycle) CancelOrder(ctx context.Context, orderID int64) error {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.CancelOrder",
		trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	if err := l.inner.CancelOrder(ctx, orderID); err != nil {
		return l.handleError(ctx, span, "cancel", err)
	}
	l.metrics.record(ctx, "cancel", "ok", 1)
	return nil
}

func (l *Lifecycle) SweepOverdue(ctx context.Context) (int64, error) {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.SweepOverdue")
	defer span.End()

	completed, err := l.inner.SweepOverdue(ctx)
	if err != nil {
		return 0, l.handleError(ctx, span, "sweep", err)
	}
	span.SetAttributes(attribute.Int64("orders.completed", completed))
	l.metrics.record(ctx, "sweep", "ok", completed)
	return completed, nil
}

func (l *Lifecycle) MarkReady(ctx context.Context, orderID int64) (*model.ArchivedOrder, error) {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.MarkReady",
		trace.WithAttributes(attribute.Int64("order.id", orderID)))
	defer span.End()

	archived, err := l.inner.MarkReady(ctx, orderID)
	if err != nil {
		return nil, l.handleError(ctx, span, "archive", err)
	}
	span.SetAttributes(attribute.Bool("order.was_late", archived.WasLate))
	l.metrics.record(ctx, "archive", "ok", 1)
	if archived.WasLate {
		l.metrics.recordLate(ctx)
	}
	return archived, nil
}

func (l *Lifecycle) ResetDay(ctx context.Context) error {
	ctx, span := l.tracer.Start(ctx, "OrderLifecycle.ResetDay")
	defer span.End()

	if err := l.inner.ResetDay(ctx); err != nil {
		return l.handleError(ctx, span, "reset", err)
	}
	l.metrics.record(ctx, "reset", "ok", 1)
	return nil
}

// handleError records the outcome. Business rejections are counted but do not
// mark the span as failed.
func (l *Lifecycle) handleError(ctx context.Context, span trace.Span, op string, err error) error {
	outcome := outcomeOf(err)
	l.metrics.record(ctx, op, outcome, 1)
	span.SetAttributes(attribute.String("order.outcome", outcome))
	if outcome == "persistence_failure" {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if l.logger != nil {
			l.logger.LogAttrs(ctx, slog.LevelDebug, "lifecycle span failed",
				slog.String("op", op), slog.String("error", err.Error()))
		}
	}
	return err
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		return "validation_failed"
	case errors.Is(err, domainErrors.ErrNotFound):
		return "not_found"
	case errors.Is(err, domainErrors.ErrInvalidState):
		return "already_finalized"
	case errors.Is(err, domainErrors.ErrWindowExpired):
		return "window_expired"
	default:
		return "persistence_failure"
	}
}

type lifecycleMetrics struct {
	transitions metric.Int64Counter
	lateOrders  metric.Int64Counter
}

func newLifecycleMetrics(m metric.Meter) lifecycleMetrics {
	if m == nil {
		return lifecycleMetrics{}
	}
	transitions, _ := m.Int64Counter("canteen.orders.transitions",
		metric.WithDescription("Order lifecycle operations by outcome"))
	lateOrders, _ := m.Int64Counter("canteen.orders.archived_late",
		metric.WithDescription("Orders archived after their estimated completion time"))
	return lifecycleMetrics{transitions: transitions, lateOrders: lateOrders}
}

func (m lifecycleMetrics) record(ctx context.Context, op, outcome string, n int64) {
	if m.transitions == nil || n <= 0 {
		return
	}
	m.transitions.Add(ctx, n, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("outcome", outcome),
	))
}

func (m lifecycleMetrics) recordLate(ctx context.Context) {
	if m.lateOrders != nil {
		m.lateOrders.Add(ctx, 1)
	}
}

var _ usecase.OrderLifecycle = (*Lifecycle)(nil)
