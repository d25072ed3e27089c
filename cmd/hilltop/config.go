package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"hilltop/pkg/types"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func configFromCLI(cCtx *cli.Context) (*types.Config, error) {
	return loadConfig(cCtx.String("env-prefix"), cCtx.String("env-file"))
}

// loadConfig reads envFile, if present, then the environment. Variables
// already set in the environment win over the file.
func loadConfig(prefix, envFile string) (*types.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	c := new(types.Config)
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.ServerPort == 0 || c.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}

	if c.DBMaxConns < 1 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be positive, got %d", c.DBMaxConns)
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		return nil, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat)
	}

	return c, nil
}

func newLogger(c *types.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	logger.SetLevel(level)

	if c.LogFormat == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logger, nil
}
