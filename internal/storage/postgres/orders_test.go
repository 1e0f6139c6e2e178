package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
)

var orderColumnNames = []string{"order_id", "customer_name", "total_price", "order_status", "order_date", "estimated_completion_time"}

func TestOrderRepositoryCreate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{db: storage.pool}
	ctx := context.Background()

	placed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	est := placed.Add(8 * time.Minute)
	order := model.Order{
		CustomerName:            "Asha",
		TotalPrice:              decimal.RequireFromString("10"),
		Status:                  model.OrderStatusPending,
		OrderDate:               placed,
		EstimatedCompletionTime: &est,
	}
	items := []model.LineItem{
		{ItemID: 1, Quantity: 2, PricePerItem: decimal.RequireFromString("5")},
		{ItemID: 3, Quantity: 1, PricePerItem: decimal.RequireFromString("0")},
	}

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("Asha", "10.00", model.OrderStatusPending, placed, &est).
		WillReturnRows(pgxmockv3.NewRows([]string{"order_id"}).AddRow(int64(42)))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(int64(42), int64(1), 2, "5.00").WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO order_items").WithArgs(int64(42), int64(3), 1, "0.00").WillReturnResult(pgxmockv3.NewResult("INSERT", 1))

	id, err := repo.Create(ctx, order, items)
	if err != nil || id != 42 {
		t.Fatalf("unexpected result: id=%d err=%v", id, err)
	}

	mock.ExpectQuery("INSERT INTO orders").WillReturnError(errors.New("insert"))
	if _, err := repo.Create(ctx, order, items); err == nil {
		t.Fatal("expected insert error")
	}

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("Asha", "10.00", model.OrderStatusPending, placed, &est).
		WillReturnRows(pgxmockv3.NewRows([]string{"order_id"}).AddRow(int64(43)))
	mock.ExpectExec("INSERT INTO order_items").WillReturnError(errors.New("fk violation"))
	if _, err := repo.Create(ctx, order, items); err == nil {
		t.Fatal("expected line item error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryGet(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{db: storage.pool}
	ctx := context.Background()

	placed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	est := placed.Add(8 * time.Minute)

	mock.ExpectQuery("SELECT order_id, customer_name, total_price::text, order_status, order_date, estimated_completion_time FROM orders WHERE order_id=").
		WithArgs(int64(1)).
		WillReturnRows(pgxmockv3.NewRows(orderColumnNames).AddRow(int64(1), "Asha", "10.00", model.OrderStatusPending, placed, &est))
	order, err := repo.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.CustomerName != "Asha" || !order.TotalPrice.Equal(decimal.RequireFromString("10")) || order.Status != model.OrderStatusPending {
		t.Fatalf("unexpected order: %+v", order)
	}
	if order.EstimatedCompletionTime == nil || !order.EstimatedCompletionTime.Equal(est) {
		t.Fatalf("unexpected estimate: %v", order.EstimatedCompletionTime)
	}

	mock.ExpectQuery("FROM orders WHERE order_id=\\$1 FOR UPDATE").
		WithArgs(int64(2)).
		WillReturnRows(pgxmockv3.NewRows(orderColumnNames).AddRow(int64(2), "Ravi", "3.50", model.OrderStatusCancelled, placed, nil))
	order, err = repo.GetForUpdate(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.EstimatedCompletionTime != nil || order.Status != model.OrderStatusCancelled {
		t.Fatalf("unexpected order: %+v", order)
	}

	mock.ExpectQuery("FROM orders WHERE order_id=").WithArgs(int64(3)).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(ctx, 3); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM orders WHERE order_id=").WithArgs(int64(4)).WillReturnError(errors.New("boom"))
	if _, err := repo.GetForUpdate(ctx, 4); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected raw error, got %v", err)
	}

	mock.ExpectQuery("FROM orders WHERE order_id=").
		WithArgs(int64(5)).
		WillReturnRows(pgxmockv3.NewRows(orderColumnNames).AddRow(int64(5), "Bad", "ten", model.OrderStatusPending, placed, nil))
	if _, err := repo.GetByID(ctx, 5); err == nil {
		t.Fatal("expected numeric parse error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryLineItems(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{db: storage.pool}
	ctx := context.Background()

	columns := []string{"order_id", "item_id", "name", "quantity", "price_per_item"}
	mock.ExpectQuery("FROM order_items oi").WithArgs(int64(9)).WillReturnRows(
		pgxmockv3.NewRows(columns).
			AddRow(int64(9), int64(1), "Masala Dosa", 2, "5.00").
			AddRow(int64(9), int64(4), "Filter Coffee", 1, "1.20"),
	)
	items, err := repo.LineItems(ctx, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].Name != "Masala Dosa" || items[1].Quantity != 1 {
		t.Fatalf("unexpected items: %+v", items)
	}
	if !items[1].PricePerItem.Equal(decimal.RequireFromString("1.2")) {
		t.Fatalf("unexpected price %s", items[1].PricePerItem)
	}

	mock.ExpectQuery("FROM order_items oi").WithArgs(int64(10)).WillReturnError(errors.New("query"))
	if _, err := repo.LineItems(ctx, 10); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM order_items oi").WithArgs(int64(11)).WillReturnRows(
		pgxmockv3.NewRows(columns).AddRow(int64(11), int64(1), "Tea", 1, "1.00").RowError(0, errors.New("row")),
	)
	if _, err := repo.LineItems(ctx, 11); err == nil {
		t.Fatal("expected row error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryTransitions(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{db: storage.pool}
	ctx := context.Background()

	mock.ExpectExec("UPDATE orders SET order_status=\\$1 WHERE order_id=\\$2 AND order_status=\\$3").
		WithArgs(model.OrderStatusCancelled, int64(1), model.OrderStatusPending).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	changed, err := repo.TransitionStatus(ctx, 1, model.OrderStatusPending, model.OrderStatusCancelled)
	if err != nil || !changed {
		t.Fatalf("expected transition, got changed=%v err=%v", changed, err)
	}

	mock.ExpectExec("UPDATE orders SET order_status").
		WithArgs(model.OrderStatusCancelled, int64(2), model.OrderStatusPending).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	changed, err = repo.TransitionStatus(ctx, 2, model.OrderStatusPending, model.OrderStatusCancelled)
	if err != nil || changed {
		t.Fatalf("expected no transition, got changed=%v err=%v", changed, err)
	}

	mock.ExpectExec("UPDATE orders SET order_status").WillReturnError(errors.New("update"))
	if _, err := repo.TransitionStatus(ctx, 3, model.OrderStatusPending, model.OrderStatusCancelled); err == nil {
		t.Fatal("expected error")
	}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("estimated_completion_time IS NOT NULL").
		WithArgs(model.OrderStatusCompleted, model.OrderStatusPending, now).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 3))
	swept, err := repo.CompleteOverdue(ctx, now)
	if err != nil || swept != 3 {
		t.Fatalf("unexpected sweep result: %d %v", swept, err)
	}

	mock.ExpectExec("estimated_completion_time IS NOT NULL").WillReturnError(errors.New("sweep"))
	if _, err := repo.CompleteOverdue(ctx, now); err == nil {
		t.Fatal("expected sweep error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestOrderRepositoryListDeleteTruncate(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &orderRepository{db: storage.pool}
	ctx := context.Background()

	placed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM orders ORDER BY order_id ASC").WillReturnRows(
		pgxmockv3.NewRows(orderColumnNames).
			AddRow(int64(1), "Asha", "10.00", model.OrderStatusCompleted, placed, nil).
			AddRow(int64(2), "Ravi", "4.00", model.OrderStatusPending, placed, nil),
	)
	orders, err := repo.List(ctx)
	if err != nil || len(orders) != 2 || orders[1].CustomerName != "Ravi" {
		t.Fatalf("unexpected list: %+v err=%v", orders, err)
	}

	mock.ExpectQuery("FROM orders ORDER BY order_id ASC").WillReturnError(errors.New("list"))
	if _, err := repo.List(ctx); err == nil {
		t.Fatal("expected list error")
	}

	mock.ExpectExec("DELETE FROM orders WHERE order_id").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("DELETE", 1))
	if err := repo.Delete(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("DELETE FROM orders WHERE order_id").WithArgs(int64(2)).WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	if err := repo.Delete(ctx, 2); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("DELETE FROM orders WHERE order_id").WithArgs(int64(3)).WillReturnError(errors.New("delete"))
	if err := repo.Delete(ctx, 3); err == nil {
		t.Fatal("expected delete error")
	}

	mock.ExpectExec("DELETE FROM order_items").WillReturnResult(pgxmockv3.NewResult("DELETE", 5))
	mock.ExpectExec("DELETE FROM orders").WillReturnResult(pgxmockv3.NewResult("DELETE", 2))
	mock.ExpectExec("ALTER SEQUENCE orders_order_id_seq RESTART WITH 1").WillReturnResult(pgxmockv3.NewResult("ALTER SEQUENCE", 0))
	if err := repo.Truncate(ctx); err != nil {
		t.Fatalf("unexpected truncate error: %v", err)
	}

	mock.ExpectExec("DELETE FROM order_items").WillReturnError(errors.New("truncate"))
	if err := repo.Truncate(ctx); err == nil {
		t.Fatal("expected truncate error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
