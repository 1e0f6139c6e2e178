package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	AdminUsername     string
	AdminPasswordHash string
	AdminPassword     string
	TokenSecret       string
	TokenTTL          time.Duration
	CancelWindow      time.Duration
	DefaultPrepTime   time.Duration
	// SweepSchedule is a cron spec for the background sweep. Empty disables it.
	SweepSchedule   string
	ShutdownTimeout time.Duration
	LogLevel        string
	TracingEnabled  bool
}

const (
	defaultRunAddress      = ":8080"
	defaultAdminUsername   = "admin"
	defaultTokenSecret     = "change-me-in-production"
	defaultTokenTTL        = 12 * time.Hour
	defaultCancelWindow    = 10 * time.Second
	defaultPrepTime        = 5 * time.Minute
	defaultSweepSchedule   = "@every 30s"
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
	defaultEnvFile         = ".env"
)

// Load parses configuration from an optional .env file, the environment and flags.
func Load() (*Config, error) {
	if err := loadEnvFile(getString(os.LookupEnv, "ENV_FILE", defaultEnvFile)); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

// loadEnvFile populates unset variables from path. A missing file is not an error.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		AdminUsername:     getString(lookup, "ADMIN_USERNAME", defaultAdminUsername),
		AdminPasswordHash: getString(lookup, "ADMIN_PASSWORD_HASH", ""),
		AdminPassword:     getString(lookup, "ADMIN_PASSWORD", ""),
		TokenSecret:       getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		TokenTTL:          getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		CancelWindow:      getDuration(lookup, "CANCEL_WINDOW", defaultCancelWindow),
		DefaultPrepTime:   getDuration(lookup, "DEFAULT_PREP_TIME", defaultPrepTime),
		SweepSchedule:     defaultSweepSchedule,
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
		TracingEnabled:    getBool(lookup, "TRACING_ENABLED", false),
	}
	if v, ok := lookup("SWEEP_SCHEDULE"); ok {
		cfg.SweepSchedule = strings.TrimSpace(v)
	}

	fs := flag.NewFlagSet("canteen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		tokenTTLStr        = cfg.TokenTTL.String()
		cancelWindowStr    = cfg.CancelWindow.String()
		prepTimeStr        = cfg.DefaultPrepTime.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AdminUsername, "admin-user", cfg.AdminUsername, "Staff account name")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for signing admin tokens")
	fs.StringVar(&tokenTTLStr, "token-ttl", tokenTTLStr, "Admin token lifetime")
	fs.StringVar(&cancelWindowStr, "cancel-window", cancelWindowStr, "Time after placement during which an order may be cancelled")
	fs.StringVar(&prepTimeStr, "default-prep-time", prepTimeStr, "Preparation time used when no cart item is known")
	fs.StringVar(&cfg.SweepSchedule, "sweep-schedule", cfg.SweepSchedule, "Cron spec of the overdue order sweep, empty disables it")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	fs.BoolVar(&cfg.TracingEnabled, "tracing", cfg.TracingEnabled, "Export traces to stdout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.TokenTTL, err = time.ParseDuration(tokenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid token ttl: %w", err)
	}

	if cfg.CancelWindow, err = time.ParseDuration(cancelWindowStr); err != nil {
		return nil, fmt.Errorf("invalid cancel window: %w", err)
	}

	if cfg.DefaultPrepTime, err = time.ParseDuration(prepTimeStr); err != nil {
		return nil, fmt.Errorf("invalid default prep time: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = strings.TrimSpace(string(content))
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.CancelWindow <= 0 {
		cfg.CancelWindow = defaultCancelWindow
	}

	if cfg.DefaultPrepTime <= 0 {
		cfg.DefaultPrepTime = defaultPrepTime
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
