package main

import (
	"github.com/thedavidemmanuel/water-quality-api/internal/config"
	"github.com/thedavidemmanuel/water-quality-api/internal/logging"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.NewLogger(cfg.ServiceName)
}
