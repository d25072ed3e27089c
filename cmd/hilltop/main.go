package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	app := &cli.App{
		Name:    "hilltop",
		Usage:   "DevOps resource catalog API",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-prefix",
				Aliases: []string{"p"},
				Usage:   "Environment variable prefix",
				Value:   "APP",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file loaded before reading the environment",
				Value: ".env",
			},
		},
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
