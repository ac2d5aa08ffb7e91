package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/riskibarqy/challenge-league/internal/app"
	"github.com/riskibarqy/challenge-league/internal/config"
	"github.com/riskibarqy/challenge-league/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}).With("service", cfg.ServiceName, "command", "migration")
	defer func() { _ = logger.Sync() }()

	if err := app.Migrate(cfg, logger, os.Args[1:]); err != nil {
		logger.Error("migration failed", "error", err)
		if errors.Is(err, app.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
