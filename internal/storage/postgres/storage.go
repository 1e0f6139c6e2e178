package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/canteen/internal/domain/repository"
)

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxPool interface {
	querier
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

type scanner interface {
	Scan(dest ...any) error
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{db: s.pool}
}

func (s *Storage) Archive() repository.ArchiveRepository {
	return &archiveRepository{db: s.pool}
}

func (s *Storage) Menu() repository.MenuRepository {
	return &menuRepository{db: s.pool}
}

func (s *Storage) Settings() repository.SettingsRepository {
	return &settingsRepository{db: s.pool}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS menu_items (
            item_id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
            preparation_time INTEGER NOT NULL DEFAULT 5 CHECK (preparation_time >= 0),
            image_url TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            order_id BIGSERIAL PRIMARY KEY,
            customer_name TEXT NOT NULL,
            total_price NUMERIC(10,2) NOT NULL CHECK (total_price >= 0),
            order_status TEXT NOT NULL DEFAULT 'Pending',
            order_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            estimated_completion_time TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            order_id BIGINT NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
            item_id BIGINT NOT NULL,
            quantity INTEGER NOT NULL CHECK (quantity >= 1),
            price_per_item NUMERIC(10,2) NOT NULL,
            PRIMARY KEY (order_id, item_id)
        )`,
		`CREATE TABLE IF NOT EXISTS archived_orders (
            order_id BIGINT PRIMARY KEY,
            customer_name TEXT NOT NULL,
            total_price NUMERIC(10,2) NOT NULL,
            order_date TIMESTAMPTZ NOT NULL,
            estimated_completion_time TIMESTAMPTZ,
            completion_time TIMESTAMPTZ NOT NULL,
            was_late BOOLEAN NOT NULL DEFAULT FALSE
        )`,
		`CREATE TABLE IF NOT EXISTS archived_order_items (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES archived_orders(order_id) ON DELETE CASCADE,
            item_name TEXT NOT NULL,
            quantity INTEGER NOT NULL,
            price_per_item NUMERIC(10,2) NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS canteen_settings (
            setting_key TEXT PRIMARY KEY,
            setting_value TEXT NOT NULL
        )`,
		`INSERT INTO canteen_settings (setting_key, setting_value) VALUES ('canteen_open_status', 'CLOSED')
            ON CONFLICT (setting_key) DO NOTHING`,
		`CREATE INDEX IF NOT EXISTS idx_orders_pending_eta ON orders(estimated_completion_time) WHERE order_status = 'Pending'`,
		`CREATE INDEX IF NOT EXISTS idx_archived_items_order ON archived_order_items(order_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction runs fn with repositories bound to one transaction.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(repository.Factory) error) error {
	return s.withinTx(ctx, func(tx pgx.Tx) error {
		return fn(&txRepositories{tx: tx})
	})
}

func (s *Storage) withinTx(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && s.logger != nil {
				s.logger.Warn("transaction rollback after panic failed", slog.String("error", rbErr.Error()))
			}
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && s.logger != nil {
				s.logger.Warn("transaction rollback failed", slog.String("error", rbErr.Error()))
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

type txRepositories struct {
	tx pgx.Tx
}

func (r *txRepositories) Orders() repository.OrderRepository {
	return &orderRepository{db: r.tx}
}

func (r *txRepositories) Archive() repository.ArchiveRepository {
	return &archiveRepository{db: r.tx}
}

func (r *txRepositories) Menu() repository.MenuRepository {
	return &menuRepository{db: r.tx}
}

func (r *txRepositories) Settings() repository.SettingsRepository {
	return &settingsRepository{db: r.tx}
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse numeric %q: %w", raw, err)
	}
	return d, nil
}

func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

var (
	_ repository.Factory    = (*Storage)(nil)
	_ repository.Transactor = (*Storage)(nil)
	_ repository.Factory    = (*txRepositories)(nil)
)
