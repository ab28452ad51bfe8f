package main

import (
	"context"
	"errors"
	"os"

	"github.com/renato-scuola/musicflow/internal/services"
	"github.com/renato-scuola/musicflow/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	acquisition := services.NewInvidiousService(config.Acquisition, logger)

	runner := NewRunner(RunnerOpts{
		Config:      config,
		Acquisition: acquisition,
		Logger:      logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "musicflow",
		Usage:    "Search, organize, and play music from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
