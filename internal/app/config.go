// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"errors"
	"fmt"

	"github.com/vk/trainconf/internal/config"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string
	// Overrides are "dotted.path=value" assignments applied in order on
	// top of the loaded document.
	Overrides []string

	OutputFormat config.Format
	// OutputPath is where the handoff is written; "" or "-" means the
	// writer passed to Run.
	OutputPath string
	// Check validates the configuration without writing a handoff.
	Check bool

	LogFormat string
	LogLevel  string

	Run config.Run
}

// NewConfig validates cfg and fills its defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}

	if cfg.OutputFormat == "" {
		cfg.OutputFormat = config.FormatYAML
	}
	if _, err := config.ParseFormat(string(cfg.OutputFormat)); err != nil {
		return nil, err
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	if cfg.Run.Mode == "" {
		cfg.Run.Mode = config.ModeTrain
	}
	if err := cfg.Run.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
