package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
	testhelpers "github.com/polkiloo/canteen/internal/test"
	"github.com/polkiloo/canteen/internal/usecase"
)

type harness struct {
	lifecycle *Lifecycle
	store     *testhelpers.MemoryStore
	spans     *tracetest.SpanRecorder
	reader    *sdkmetric.ManualReader
	now       time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store:  testhelpers.NewMemoryStore(model.MenuItem{ID: 1, Name: "Dosa", PreparationMinutes: 8}),
		spans:  tracetest.NewSpanRecorder(),
		reader: sdkmetric.NewManualReader(),
		now:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(h.spans))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(h.reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	engine := usecase.NewLifecycleEngine(h.store, h.store, nil, usecase.LifecycleOptions{Now: func() time.Time { return h.now }}, nil)
	h.lifecycle = NewLifecycle(engine,
		WithLogger(slog.New(slog.NewJSONHandler(io.Discard, nil))),
		WithTracer(tp.Tracer("test")),
		WithMeter(mp.Meter("test")),
	)
	return h
}

func (h *harness) transitions(t *testing.T) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, h.reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				if m.Name == "canteen.orders.archived_late" {
					counts["late"] += dp.Value
					continue
				}
				op, _ := dp.Attributes.Value(attribute.Key("op"))
				outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
				counts[op.AsString()+"/"+outcome.AsString()] += dp.Value
			}
		}
	}
	return counts
}

func sampleDraft() model.OrderDraft {
	return model.OrderDraft{
		CustomerName: "Asha",
		Cart:         []model.CartLine{{ItemID: 1, Quantity: 1, Price: decimal.RequireFromString("60")}},
		TotalPrice:   decimal.RequireFromString("60"),
	}
}

func TestLifecycleRecordsSuccessfulTransitions(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	id, err := h.lifecycle.PlaceOrder(ctx, sampleDraft())
	require.NoError(t, err)
	h.now = h.now.Add(10 * time.Minute)

	completed, err := h.lifecycle.SweepOverdue(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), completed)

	archived, err := h.lifecycle.MarkReady(ctx, id)
	require.NoError(t, err)
	assert.True(t, archived.WasLate)
	require.NoError(t, h.lifecycle.ResetDay(ctx))

	counts := h.transitions(t)
	assert.Equal(t, int64(1), counts["place/ok"])
	assert.Equal(t, int64(1), counts["sweep/ok"])
	assert.Equal(t, int64(1), counts["archive/ok"])
	assert.Equal(t, int64(1), counts["reset/ok"])
	assert.Equal(t, int64(1), counts["late"])

	ended := h.spans.Ended()
	require.Len(t, ended, 4)
	assert.Equal(t, "OrderLifecycle.PlaceOrder", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.Int64("order.id", id))
	assert.Equal(t, codes.Unset, ended[2].Status().Code)
}

func TestLifecycleBusinessRejectionsKeepSpanOK(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	id, err := h.lifecycle.PlaceOrder(ctx, sampleDraft())
	require.NoError(t, err)
	h.now = h.now.Add(time.Minute)

	err = h.lifecycle.CancelOrder(ctx, id)
	assert.ErrorIs(t, err, domainErrors.ErrWindowExpired)
	_, err = h.lifecycle.MarkReady(ctx, 404)
	assert.ErrorIs(t, err, domainErrors.ErrNotFound)
	_, err = h.lifecycle.PlaceOrder(ctx, model.OrderDraft{})
	assert.ErrorIs(t, err, domainErrors.ErrValidation)

	counts := h.transitions(t)
	assert.Equal(t, int64(1), counts["cancel/window_expired"])
	assert.Equal(t, int64(1), counts["archive/not_found"])
	assert.Equal(t, int64(1), counts["place/validation_failed"])

	for _, span := range h.spans.Ended() {
		assert.NotEqual(t, codes.Error, span.Status().Code, span.Name())
	}
}

func TestLifecyclePersistenceFailureMarksSpan(t *testing.T) {
	h := newHarness(t)
	h.store.Fail = testhelpers.FailOn("orders.truncate", errors.New("disk full"))

	err := h.lifecycle.ResetDay(context.Background())
	require.ErrorIs(t, err, domainErrors.ErrPersistence)

	ended := h.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
	assert.Equal(t, int64(1), h.transitions(t)["reset/persistence_failure"])
}

func TestNewLifecycleDefaults(t *testing.T) {
	store := testhelpers.NewMemoryStore()
	engine := usecase.NewLifecycleEngine(store, store, nil, usecase.LifecycleOptions{}, nil)
	l := NewLifecycle(engine, nil, WithTracer(nil))

	require.NotNil(t, l.tracer)
	completed, err := l.SweepOverdue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, completed)
	assert.ErrorIs(t, l.CancelOrder(context.Background(), 7), domainErrors.ErrNotFound)
}
