package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
)

const archiveColumns = `order_id, customer_name, total_price::text, order_date, estimated_completion_time, completion_time, was_late`

type archiveRepository struct {
	db querier
}

func (r *archiveRepository) Insert(ctx context.Context, order model.ArchivedOrder) error {
	const insertOrder = `INSERT INTO archived_orders
                         (order_id, customer_name, total_price, order_date, estimated_completion_time, completion_time, was_late)
                         VALUES ($1, $2, $3, $4, $5, $6, $7)`
	const insertItem = `INSERT INTO archived_order_items (order_id, item_name, quantity, price_per_item) VALUES ($1, $2, $3, $4)`

	_, err := r.db.Exec(ctx, insertOrder,
		order.OrderID, order.CustomerName, formatDecimal(order.TotalPrice), order.OrderDate,
		order.EstimatedCompletionTime, order.CompletionTime, order.WasLate,
	)
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		if _, err := r.db.Exec(ctx, insertItem, order.OrderID, item.ItemName, item.Quantity, formatDecimal(item.PricePerItem)); err != nil {
			return err
		}
	}
	return nil
}

func (r *archiveRepository) Delete(ctx context.Context, orderID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM archived_order_items WHERE order_id=$1`, orderID); err != nil {
		return err
	}
	if _, err := r.db.Exec(ctx, `DELETE FROM archived_orders WHERE order_id=$1`, orderID); err != nil {
		return err
	}
	return nil
}

func (r *archiveRepository) GetByID(ctx context.Context, orderID int64) (*model.ArchivedOrder, error) {
	const query = `SELECT ` + archiveColumns + ` FROM archived_orders WHERE order_id=$1`
	order, err := scanArchivedOrder(r.db.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, err
	}
	if order.Items, err = r.Items(ctx, orderID); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *archiveRepository) Items(ctx context.Context, orderID int64) ([]model.ArchivedLineItem, error) {
	const query = `SELECT order_id, item_name, quantity, price_per_item::text
                   FROM archived_order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ArchivedLineItem
	for rows.Next() {
		var (
			item  model.ArchivedLineItem
			price string
		)
		if err := rows.Scan(&item.OrderID, &item.ItemName, &item.Quantity, &price); err != nil {
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

func (r *archiveRepository) List(ctx context.Context) ([]model.ArchivedOrder, error) {
	const query = `SELECT ` + archiveColumns + ` FROM archived_orders ORDER BY order_id ASC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ArchivedOrder
	for rows.Next() {
		order, err := scanArchivedOrder(rows)
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

func (r *archiveRepository) TotalSales(ctx context.Context) (decimal.Decimal, error) {
	var total string
	if err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_price), 0)::text FROM archived_orders`).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return parseDecimal(total)
}

func (r *archiveRepository) Truncate(ctx context.Context) error {
	statements := []string{
		`DELETE FROM archived_order_items`,
		`DELETE FROM archived_orders`,
		`ALTER SEQUENCE archived_order_items_id_seq RESTART WITH 1`,
	}
	for _, stmt := range statements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func scanArchivedOrder(row scanner) (*model.ArchivedOrder, error) {
	var (
		order model.ArchivedOrder
		total string
	)
	err := row.Scan(&order.OrderID, &order.CustomerName, &total, &order.OrderDate,
		&order.EstimatedCompletionTime, &order.CompletionTime, &order.WasLate)
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
