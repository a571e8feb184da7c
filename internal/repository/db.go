package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const (
	driverPostgres = "pgx"
	driverSQLite   = "sqlite"
)

func init() {
	sqlx.BindDriver(driverSQLite, sqlx.QUESTION)
}

type Config struct {
	DSN             string // postgres://... ; sqlite path or file: URI ; empty = in-memory sqlite
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	DialTimeout     time.Duration
}

// driverFor picks the database/sql driver from the DSN shape.
func driverFor(dsn string) (driver, source string) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return driverPostgres, dsn
	case dsn == "", dsn == ":memory:":
		return driverSQLite, ":memory:"
	default:
		return driverSQLite, strings.TrimPrefix(dsn, "sqlite://")
	}
}

// Open connects, pings and migrates the ledger schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	driver, source := driverFor(cfg.DSN)
	logger.Info("connecting to database", "driver", driver)

	db, err := sqlx.Open(driver, source)
	if err != nil {
		logger.Error("failed to open database", "driver", driver, "error", err)
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == driverSQLite {
		// one connection keeps an in-memory database alive and serializes writers
		db.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 && driver != driverSQLite {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := HealthCheck(ctx, db, cfg.DialTimeout, logger); err != nil {
		_ = db.Close()
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		logger.Error("failed to migrate database", "error", err)
		return nil, err
	}

	logger.Info("successfully connected to database", "driver", driver)
	return db, nil
}

// Close closes the database connections gracefully
func Close(db *sqlx.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	logger.Info("closing database connections")
	if err := db.Close(); err != nil {
		logger.Error("failed to close database", "error", err)
		return
	}
	logger.Info("database connections closed")
}

// HealthCheck pings using database/sql to catch DSN issues early.
func HealthCheck(ctx context.Context, db *sqlx.DB, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	logger.Debug("database ping successful")
	return nil
}
