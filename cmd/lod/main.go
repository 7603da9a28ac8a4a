// Package main is the entry point for the LoD terrain demo.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Nuos/LoD/internal/app"
	"github.com/Nuos/LoD/internal/config"
	"github.com/Nuos/LoD/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== LoD Terrain Demo ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("failed to create demo", zap.Error(err))
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(); err != nil {
		logger.Error("demo error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("demo closed normally")
}
