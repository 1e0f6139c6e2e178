package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/canteen/internal/domain/model"
)

// ArchiveRepository stores completed order snapshots.
type ArchiveRepository interface {
	Insert(ctx context.Context, order model.ArchivedOrder) error
	Delete(ctx context.Context, orderID int64) error
	GetByID(ctx context.Context, orderID int64) (*model.ArchivedOrder, error)
	Items(ctx context.Context, orderID int64) ([]model.ArchivedLineItem, error)
	List(ctx context.Context) ([]model.ArchivedOrder, error)
	TotalSales(ctx context.Context) (decimal.Decimal, error)
	Truncate(ctx context.Context) error
}
