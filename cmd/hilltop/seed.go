package main

import (
	"fmt"

	"hilltop/internal/db"
	"hilltop/internal/seed"
	"hilltop/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Insert the default categories and resources into an empty catalog",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Print the seeded rows",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := configFromCLI(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}

		ctx := c.Context

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logger.Info("Connected to database")

		result, err := seed.Defaults(ctx, store.NewCategoryRepository(pool, nil), store.NewResourceRepository(pool, nil))
		if err != nil {
			return err
		}

		if result.Skipped {
			logger.Info("Catalog already has categories, nothing seeded")
			return nil
		}

		logger.WithField("categories", len(result.Categories)).
			WithField("resources", len(result.Resources)).
			Info("Catalog seeded successfully")

		if c.Bool("verbose") {
			printer := pp.New()
			printer.SetColoringEnabled(false)
			printer.Println(result.Categories)
			printer.Println(result.Resources)
		}

		return nil
	},
}
