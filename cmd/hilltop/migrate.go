package main

import (
	"context"

	"hilltop/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Manage the database schema",
	Subcommands: []*cli.Command{
		{
			Name:   "up",
			Usage:  "Apply all pending migrations",
			Action: migrateAction(db.Migrate),
		},
		{
			Name:   "down",
			Usage:  "Roll back the most recent migration",
			Action: migrateAction(db.Rollback),
		},
		{
			Name:   "status",
			Usage:  "Show which migrations are applied",
			Action: migrateAction(db.Status),
		},
	},
}

type migrationFunc func(context.Context, *pgxpool.Pool, *logrus.Logger) error

func migrateAction(fn migrationFunc) cli.ActionFunc {
	return func(cCtx *cli.Context) error {
		config, err := configFromCLI(cCtx)
		if err != nil {
			return err
		}

		logger, err := newLogger(config)
		if err != nil {
			return err
		}

		ctx := cCtx.Context

		pool, err := db.Connect(ctx, config)
		if err != nil {
			return err
		}
		defer pool.Close()

		return fn(ctx, pool, logger)
	}
}
