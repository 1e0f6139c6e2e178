package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
)

var menuColumnNames = []string{"item_id", "name", "description", "price", "preparation_time", "image_url"}

func TestMenuRepositoryLookup(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &menuRepository{db: storage.pool}
	ctx := context.Background()

	items, err := repo.Lookup(ctx, nil)
	if err != nil || len(items) != 0 {
		t.Fatalf("empty lookup must not query: %v %v", items, err)
	}

	mock.ExpectQuery("FROM menu_items WHERE item_id = ANY").
		WithArgs([]int64{1, 2, 99}).
		WillReturnRows(pgxmockv3.NewRows(menuColumnNames).
			AddRow(int64(1), "Masala Dosa", "crispy", "5.00", 8, "").
			AddRow(int64(2), "Filter Coffee", "", "1.20", 3, "https://img.example/coffee.png"))
	items, err = repo.Lookup(ctx, []int64{1, 2, 99})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected two resolved items, got %d", len(items))
	}
	if items[1].PreparationMinutes != 8 || !items[2].Price.Equal(decimal.RequireFromString("1.2")) {
		t.Fatalf("unexpected items: %+v", items)
	}
	if _, ok := items[99]; ok {
		t.Fatal("unknown item must not resolve")
	}

	mock.ExpectQuery("FROM menu_items WHERE item_id = ANY").WillReturnError(errors.New("lookup"))
	if _, err := repo.Lookup(ctx, []int64{1}); err == nil {
		t.Fatal("expected lookup error")
	}

	mock.ExpectQuery("FROM menu_items WHERE item_id = ANY").WillReturnRows(
		pgxmockv3.NewRows(menuColumnNames).AddRow(int64(1), "Tea", "", "free", 1, ""))
	if _, err := repo.Lookup(ctx, []int64{1}); err == nil {
		t.Fatal("expected price parse error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestMenuRepositoryCRUD(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &menuRepository{db: storage.pool}
	ctx := context.Background()

	mock.ExpectQuery("FROM menu_items ORDER BY item_id").WillReturnRows(
		pgxmockv3.NewRows(menuColumnNames).
			AddRow(int64(1), "Idli", "", "2.50", 4, "").
			AddRow(int64(2), "Vada", "", "3.00", 6, ""))
	list, err := repo.List(ctx)
	if err != nil || len(list) != 2 || list[1].Name != "Vada" {
		t.Fatalf("unexpected list: %+v err=%v", list, err)
	}

	mock.ExpectQuery("FROM menu_items ORDER BY item_id").WillReturnError(errors.New("list"))
	if _, err := repo.List(ctx); err == nil {
		t.Fatal("expected list error")
	}

	item := model.MenuItem{Name: "Upma", Description: "semolina", Price: decimal.RequireFromString("4"), PreparationMinutes: 7}
	mock.ExpectQuery("INSERT INTO menu_items").
		WithArgs("Upma", "semolina", "4.00", 7, "").
		WillReturnRows(pgxmockv3.NewRows([]string{"item_id"}).AddRow(int64(12)))
	created, err := repo.Create(ctx, item)
	if err != nil || created.ID != 12 || created.Name != "Upma" {
		t.Fatalf("unexpected create result: %+v err=%v", created, err)
	}

	mock.ExpectQuery("INSERT INTO menu_items").WillReturnError(errors.New("create"))
	if _, err := repo.Create(ctx, item); err == nil {
		t.Fatal("expected create error")
	}

	item.ID = 12
	mock.ExpectExec("UPDATE menu_items").
		WithArgs("Upma", "semolina", "4.00", 7, "", int64(12)).
		WillReturnResult(pgxmockv3.NewResult("UPDATE", 1))
	if err := repo.Update(ctx, item); err != nil {
		t.Fatalf("unexpected update error: %v", err)
	}

	mock.ExpectExec("UPDATE menu_items").WillReturnResult(pgxmockv3.NewResult("UPDATE", 0))
	if err := repo.Update(ctx, item); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("UPDATE menu_items").WillReturnError(errors.New("update"))
	if err := repo.Update(ctx, item); err == nil {
		t.Fatal("expected update error")
	}

	existsRows := func(v bool) *pgxmockv3.Rows { return pgxmockv3.NewRows([]string{"exists"}).AddRow(v) }

	mock.ExpectExec("DELETE FROM menu_items WHERE item_id").WithArgs(int64(12)).WillReturnResult(pgxmockv3.NewResult("DELETE", 1))
	if err := repo.Delete(ctx, 12); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	mock.ExpectExec("DELETE FROM menu_items WHERE item_id").WithArgs(int64(13)).WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(13)).WillReturnRows(existsRows(false))
	if err := repo.Delete(ctx, 13); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectExec("DELETE FROM menu_items WHERE item_id").WithArgs(int64(1)).WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(1)).WillReturnRows(existsRows(true))
	if err := repo.Delete(ctx, 1); !errors.Is(err, domainErrors.ErrMenuItemInUse) {
		t.Fatalf("expected in use, got %v", err)
	}

	mock.ExpectExec("DELETE FROM menu_items WHERE item_id").WithArgs(int64(3)).WillReturnResult(pgxmockv3.NewResult("DELETE", 0))
	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(3)).WillReturnError(errors.New("exists"))
	if err := repo.Delete(ctx, 3); err == nil || errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected raw error, got %v", err)
	}

	mock.ExpectExec("DELETE FROM menu_items WHERE item_id").WithArgs(int64(2)).WillReturnError(errors.New("delete"))
	if err := repo.Delete(ctx, 2); err == nil || errors.Is(err, domainErrors.ErrMenuItemInUse) {
		t.Fatalf("expected raw error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestSettingsRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &settingsRepository{db: storage.pool}
	ctx := context.Background()

	mock.ExpectQuery("SELECT setting_value FROM canteen_settings").WithArgs(canteenOpenStatusKey).
		WillReturnRows(pgxmockv3.NewRows([]string{"setting_value"}).AddRow("OPEN"))
	status, err := repo.CanteenStatus(ctx)
	if err != nil || status != model.CanteenOpen {
		t.Fatalf("unexpected status %q err=%v", status, err)
	}

	mock.ExpectQuery("SELECT setting_value FROM canteen_settings").WillReturnError(pgx.ErrNoRows)
	status, err = repo.CanteenStatus(ctx)
	if err != nil || status != model.CanteenClosed {
		t.Fatalf("missing setting must read as closed: %q %v", status, err)
	}

	mock.ExpectQuery("SELECT setting_value FROM canteen_settings").
		WillReturnRows(pgxmockv3.NewRows([]string{"setting_value"}).AddRow("maybe"))
	status, err = repo.CanteenStatus(ctx)
	if err != nil || status != model.CanteenClosed {
		t.Fatalf("unknown setting must read as closed: %q %v", status, err)
	}

	mock.ExpectQuery("SELECT setting_value FROM canteen_settings").WillReturnError(errors.New("settings"))
	if _, err := repo.CanteenStatus(ctx); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectExec("INSERT INTO canteen_settings").WithArgs(canteenOpenStatusKey, "OPEN").
		WillReturnResult(pgxmockv3.NewResult("INSERT", 1))
	if err := repo.SetCanteenStatus(ctx, model.CanteenOpen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}
