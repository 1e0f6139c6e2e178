package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
)

const orderColumns = `order_id, customer_name, total_price::text, order_status, order_date, estimated_completion_time`

type orderRepository struct {
	db querier
}

func (r *orderRepository) Create(ctx context.Context, order model.Order, items []model.LineItem) (int64, error) {
	const insertOrder = `INSERT INTO orders (customer_name, total_price, order_status, order_date, estimated_completion_time)
                         VALUES ($1, $2, $3, $4, $5) RETURNING order_id`
	const insertItem = `INSERT INTO order_items (order_id, item_id, quantity, price_per_item) VALUES ($1, $2, $3, $4)`

	var orderID int64
	err := r.db.QueryRow(ctx, insertOrder,
		order.CustomerName, formatDecimal(order.TotalPrice), order.Status, order.OrderDate, order.EstimatedCompletionTime,
	).Scan(&orderID)
	if err != nil {
		return 0, err
	}

	for _, item := range items {
		if _, err := r.db.Exec(ctx, insertItem, orderID, item.ItemID, item.Quantity, formatDecimal(item.PricePerItem)); err != nil {
			return 0, err
		}
	}
	return orderID, nil
}

func (r *orderRepository) GetByID(ctx context.Context, orderID int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE order_id=$1`
	return scanOrder(r.db.QueryRow(ctx, query, orderID))
}

func (r *orderRepository) GetForUpdate(ctx context.Context, orderID int64) (*model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders WHERE order_id=$1 FOR UPDATE`
	return scanOrder(r.db.QueryRow(ctx, query, orderID))
}

func (r *orderRepository) LineItems(ctx context.Context, orderID int64) ([]model.LineItem, error) {
	const query = `SELECT oi.order_id, oi.item_id, COALESCE(mi.name, ''), oi.quantity, oi.price_per_item::text
                   FROM order_items oi
                   LEFT JOIN menu_items mi ON mi.item_id = oi.item_id
                   WHERE oi.order_id=$1
                   ORDER BY oi.item_id`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.LineItem
	for rows.Next() {
		var (
			item  model.LineItem
			price string
		)
		if err := rows.Scan(&item.OrderID, &item.ItemID, &item.Name, &item.Quantity, &price); err != nil {
			return nil, err
		}
		if item.PricePerItem, err = parseDecimal(price); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) TransitionStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) (bool, error) {
	const query = `UPDATE orders SET order_status=$1 WHERE order_id=$2 AND order_status=$3`
	tag, err := r.db.Exec(ctx, query, to, orderID, from)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *orderRepository) CompleteOverdue(ctx context.Context, now time.Time) (int64, error) {
	const query = `UPDATE orders SET order_status=$1
                   WHERE order_status=$2
                     AND estimated_completion_time IS NOT NULL
                     AND estimated_completion_time <= $3`
	tag, err := r.db.Exec(ctx, query, model.OrderStatusCompleted, model.OrderStatusPending, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *orderRepository) List(ctx context.Context) ([]model.Order, error) {
	const query = `SELECT ` + orderColumns + ` FROM orders ORDER BY order_id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) Delete(ctx context.Context, orderID int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE order_id=$1`, orderID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Truncate(ctx context.Context) error {
	statements := []string{
		`DELETE FROM order_items`,
		`DELETE FROM orders`,
		`ALTER SEQUENCE orders_order_id_seq RESTART WITH 1`,
	}
	for _, stmt := range statements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func scanOrder(row scanner) (*model.Order, error) {
	var (
		order model.Order
		total string
	)
	err := row.Scan(&order.ID, &order.CustomerName, &total, &order.Status, &order.OrderDate, &order.EstimatedCompletionTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	if order.TotalPrice, err = parseDecimal(total); err != nil {
		return nil, err
	}
	return &order, nil
}
