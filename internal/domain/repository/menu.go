package repository

import (
	"context"

	"github.com/polkiloo/canteen/internal/domain/model"
)

// MenuRepository is the read side of the catalog plus its administration.
type MenuRepository interface {
	Lookup(ctx context.Context, itemIDs []int64) (map[int64]model.MenuItem, error)
	List(ctx context.Context) ([]model.MenuItem, error)
	Create(ctx context.Context, item model.MenuItem) (*model.MenuItem, error)
	Update(ctx context.Context, item model.MenuItem) error
	Delete(ctx context.Context, itemID int64) error
}

// SettingsRepository keeps the single-row canteen settings.
type SettingsRepository interface {
	CanteenStatus(ctx context.Context) (model.CanteenStatus, error)
	SetCanteenStatus(ctx context.Context, status model.CanteenStatus) error
}
