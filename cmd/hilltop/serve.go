package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hilltop/internal/db"
	"hilltop/internal/metrics"
	"hilltop/internal/seed"
	"hilltop/internal/server"
	"hilltop/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := configFromCLI(cCtx)
	if err != nil {
		return err
	}

	logger, err := newLogger(config)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	if config.AutoMigrate {
		if err := db.Migrate(ctx, pool, logger); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	var recorder metrics.Recorder = metrics.Nop{}
	if config.MetricsEnabled {
		prom := metrics.NewPrometheus(metrics.Info{Version: version, Environment: config.Environment})
		prom.WatchPool(pool)
		recorder = prom
	}

	categoryRepo := store.NewCategoryRepository(pool, recorder)
	resourceRepo := store.NewResourceRepository(pool, recorder)
	contactRepo := store.NewContactRepository(pool, recorder)

	if config.SeedOnStart {
		result, err := seed.Defaults(ctx, categoryRepo, resourceRepo)
		if err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}
		logSeedResult(logger, result)
	}

	srv := server.New(config, logger, recorder, categoryRepo, resourceRepo, contactRepo)

	errs := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"port":        config.ServerPort,
			"environment": config.Environment,
		}).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errs:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}

func logSeedResult(logger *logrus.Logger, result *seed.Result) {
	if result.Skipped {
		logger.Debug("catalog already populated, skipping seed")
		return
	}

	logger.WithFields(logrus.Fields{
		"categories": len(result.Categories),
		"resources":  len(result.Resources),
	}).Info("seeded default catalog")
}
