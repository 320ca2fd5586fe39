// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vk/trainconf/internal/config"
	"github.com/vk/trainconf/internal/document"
	"github.com/vk/trainconf/internal/schema"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	logger    *slog.Logger
	config    *Config
	loader    config.Loader
	registry  *schema.Registry
	overrides []document.Override
	now       func() time.Time
}

// NewApp is the constructor for the application. Logs are written to logW
// with the level and format from cfg. A nil registry selects the built-in
// training schema.
func NewApp(logW io.Writer, cfg *Config, loader config.Loader, reg *schema.Registry) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Logger configured successfully.")

	if reg == nil {
		reg = schema.Default()
	}

	overrides := make([]document.Override, 0, len(cfg.Overrides))
	for _, raw := range cfg.Overrides {
		o, err := document.ParseOverride(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid override: %w", err)
		}
		overrides = append(overrides, o)
	}
	logger.Debug("Overrides parsed.", "count", len(overrides))

	return &App{
		logger:    logger,
		config:    cfg,
		loader:    loader,
		registry:  reg,
		overrides: overrides,
		now:       time.Now,
	}, nil
}
