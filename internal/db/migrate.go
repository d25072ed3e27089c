package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

const migrationsDir = "migrations"

// Migrate applies every pending migration embedded in the binary.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *logrus.Logger) error {
	return withGoose(pool, logger, func(sqlDB *sql.DB) error {
		if err := goose.UpContext(ctx, sqlDB, migrationsDir); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
		return nil
	})
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, pool *pgxpool.Pool, logger *logrus.Logger) error {
	return withGoose(pool, logger, func(sqlDB *sql.DB) error {
		if err := goose.DownContext(ctx, sqlDB, migrationsDir); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		return nil
	})
}

// Status logs the applied state of every migration.
func Status(ctx context.Context, pool *pgxpool.Pool, logger *logrus.Logger) error {
	return withGoose(pool, logger, func(sqlDB *sql.DB) error {
		if err := goose.StatusContext(ctx, sqlDB, migrationsDir); err != nil {
			return fmt.Errorf("goose status: %w", err)
		}
		return nil
	})
}

// withGoose runs fn over a database/sql handle backed by the pool. goose keeps
// its settings in package globals, so they are set on every call.
func withGoose(pool *pgxpool.Pool, logger *logrus.Logger, fn func(*sql.DB) error) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(logger)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	return fn(sqlDB)
}
