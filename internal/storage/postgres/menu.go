package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
)

const (
	menuColumns          = `item_id, name, description, price::text, preparation_time, image_url`
	canteenOpenStatusKey = "canteen_open_status"
)

type menuRepository struct {
	db querier
}

// Lookup resolves a bounded set of identifiers with a single array parameter.
func (r *menuRepository) Lookup(ctx context.Context, itemIDs []int64) (map[int64]model.MenuItem, error) {
	result := make(map[int64]model.MenuItem, len(itemIDs))
	if len(itemIDs) == 0 {
		return result, nil
	}

	const query = `SELECT ` + menuColumns + ` FROM menu_items WHERE item_id = ANY($1)`
	rows, err := r.db.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		result[item.ID] = *item
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *menuRepository) List(ctx context.Context) ([]model.MenuItem, error) {
	const query = `SELECT ` + menuColumns + ` FROM menu_items ORDER BY item_id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *menuRepository) Create(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	const query = `INSERT INTO menu_items (name, description, price, preparation_time, image_url)
                   VALUES ($1, $2, $3, $4, $5) RETURNING item_id`
	err := r.db.QueryRow(ctx, query,
		item.Name, item.Description, formatDecimal(item.Price), item.PreparationMinutes, item.ImageURL,
	).Scan(&item.ID)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) Update(ctx context.Context, item model.MenuItem) error {
	const query = `UPDATE menu_items
                   SET name=$1, description=$2, price=$3, preparation_time=$4, image_url=$5
                   WHERE item_id=$6`
	tag, err := r.db.Exec(ctx, query,
		item.Name, item.Description, formatDecimal(item.Price), item.PreparationMinutes, item.ImageURL, item.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

// Delete removes an item unless an active order still references it.
func (r *menuRepository) Delete(ctx context.Context, itemID int64) error {
	const query = `DELETE FROM menu_items WHERE item_id=$1
                   AND NOT EXISTS (SELECT 1 FROM order_items WHERE item_id=$1)`
	tag, err := r.db.Exec(ctx, query, itemID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM menu_items WHERE item_id=$1)`, itemID).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return domainErrors.ErrMenuItemInUse
	}
	return domainErrors.ErrNotFound
}

func scanMenuItem(row scanner) (*model.MenuItem, error) {
	var (
		item  model.MenuItem
		price string
	)
	if err := row.Scan(&item.ID, &item.Name, &item.Description, &price, &item.PreparationMinutes, &item.ImageURL); err != nil {
		return nil, err
	}
	var err error
	if item.Price, err = parseDecimal(price); err != nil {
		return nil, err
	}
	return &item, nil
}

type settingsRepository struct {
	db querier
}

// CanteenStatus falls back to closed when the setting row is missing.
func (r *settingsRepository) CanteenStatus(ctx context.Context) (model.CanteenStatus, error) {
	var value string
	err := r.db.QueryRow(ctx, `SELECT setting_value FROM canteen_settings WHERE setting_key=$1`, canteenOpenStatusKey).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CanteenClosed, nil
		}
		return "", err
	}
	status := model.CanteenStatus(value)
	if !status.Valid() {
		return model.CanteenClosed, nil
	}
	return status, nil
}

func (r *settingsRepository) SetCanteenStatus(ctx context.Context, status model.CanteenStatus) error {
	const query = `INSERT INTO canteen_settings (setting_key, setting_value) VALUES ($1, $2)
                   ON CONFLICT (setting_key) DO UPDATE SET setting_value = EXCLUDED.setting_value`
	_, err := r.db.Exec(ctx, query, canteenOpenStatusKey, string(status))
	return err
}
