package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	"github.com/polkiloo/canteen/internal/domain/model"
	"github.com/polkiloo/canteen/internal/domain/repository"
)

// MenuUseCase manages the catalog and the canteen open switch.
type MenuUseCase struct {
	menu     repository.MenuRepository
	settings repository.SettingsRepository
	validate *validatorv10.Validate
	logger   *slog.Logger
}

// NewMenuUseCase constructs MenuUseCase.
func NewMenuUseCase(menu repository.MenuRepository, settings repository.SettingsRepository, validate *validatorv10.Validate, logger *slog.Logger) *MenuUseCase {
	if validate == nil {
		validate = NewValidator()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuUseCase{menu: menu, settings: settings, validate: validate, logger: logger.With("component", "menu")}
}

// List returns the whole catalog ordered by id.
func (u *MenuUseCase) List(ctx context.Context) ([]model.MenuItem, error) {
	items, err := u.menu.List(ctx)
	if err != nil {
		return nil, u.fail(ctx, "list menu", err)
	}
	return items, nil
}

// Create adds a catalog item.
func (u *MenuUseCase) Create(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	item = normalizeMenuItem(item)
	if err := u.validate.Struct(item); err != nil {
		return nil, validationError(err)
	}
	created, err := u.menu.Create(ctx, item)
	if err != nil {
		return nil, u.fail(ctx, "create menu item", err)
	}
	return created, nil
}

// Update replaces a catalog item. Prices already captured by orders are unaffected.
func (u *MenuUseCase) Update(ctx context.Context, item model.MenuItem) error {
	item = normalizeMenuItem(item)
	if item.ID <= 0 {
		return domainErrors.Validation("item id must be positive")
	}
	if err := u.validate.Struct(item); err != nil {
		return validationError(err)
	}
	if err := u.menu.Update(ctx, item); err != nil {
		return u.fail(ctx, "update menu item", err)
	}
	return nil
}

// Delete removes a catalog item that no active order references.
func (u *MenuUseCase) Delete(ctx context.Context, itemID int64) error {
	if itemID <= 0 {
		return domainErrors.Validation("item id must be positive")
	}
	if err := u.menu.Delete(ctx, itemID); err != nil {
		return u.fail(ctx, "delete menu item", err)
	}
	return nil
}

// CanteenStatus reports whether the canteen accepts orders.
func (u *MenuUseCase) CanteenStatus(ctx context.Context) (model.CanteenStatus, error) {
	status, err := u.settings.CanteenStatus(ctx)
	if err != nil {
		return "", u.fail(ctx, "canteen status", err)
	}
	return status, nil
}

// SetCanteenStatus flips the canteen switch.
func (u *MenuUseCase) SetCanteenStatus(ctx context.Context, status model.CanteenStatus) error {
	status = model.CanteenStatus(strings.ToUpper(strings.TrimSpace(string(status))))
	if !status.Valid() {
		return domainErrors.Validation("status must be OPEN or CLOSED")
	}
	if err := u.settings.SetCanteenStatus(ctx, status); err != nil {
		return u.fail(ctx, "set canteen status", err)
	}
	u.logger.InfoContext(ctx, "canteen status changed", slog.String("status", string(status)))
	return nil
}

func (u *MenuUseCase) fail(ctx context.Context, op string, err error) error {
	if domainErrors.IsDomain(err) && !errors.Is(err, domainErrors.ErrPersistence) {
		return err
	}
	u.logger.ErrorContext(ctx, "menu operation failed", slog.String("op", op), slog.String("error", err.Error()))
	return domainErrors.Persistence(err)
}

func normalizeMenuItem(item model.MenuItem) model.MenuItem {
	item.Name = strings.TrimSpace(item.Name)
	item.Description = strings.TrimSpace(item.Description)
	item.ImageURL = strings.TrimSpace(item.ImageURL)
	return item
}
