package usecase

import (
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/canteen/internal/config"
	pkgAuth "github.com/polkiloo/canteen/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewValidator,
	newLifecycleOptions,
	newAdminCredentials,
	fx.Annotate(NewLifecycleEngine, fx.As(new(OrderLifecycle))),
	newSweeper,
	NewQueryService,
	NewMenuUseCase,
	NewAuthUseCase,
)

func newLifecycleOptions(cfg *config.Config) LifecycleOptions {
	return LifecycleOptions{
		CancelWindow:    cfg.CancelWindow,
		DefaultPrepTime: cfg.DefaultPrepTime,
	}
}

func newSweeper(lifecycle OrderLifecycle) Sweeper {
	return lifecycle
}

// newAdminCredentials prefers a configured bcrypt hash and otherwise hashes
// the plain password once at startup. Without either, login is disabled.
// A configured hash that does not parse aborts startup.
func newAdminCredentials(cfg *config.Config, hasher pkgAuth.PasswordHasher, logger *slog.Logger) (AdminCredentials, error) {
	creds := AdminCredentials{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash}
	if creds.PasswordHash != "" {
		if err := hasher.Validate(creds.PasswordHash); err != nil {
			return AdminCredentials{}, fmt.Errorf("invalid ADMIN_PASSWORD_HASH: %w", err)
		}
		return creds, nil
	}
	if cfg.AdminPassword == "" {
		logger.Warn("admin password not configured, staff login disabled")
		return creds, nil
	}
	hash, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return AdminCredentials{}, fmt.Errorf("hash admin password: %w", err)
	}
	creds.PasswordHash = hash
	return creds, nil
}
