// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Run resolves the configuration and writes the handoff for the training
// framework, either to outW or to the configured output path. In check mode
// nothing is written.
func (a *App) Run(ctx context.Context, outW io.Writer) error {
	a.logger.Debug("App.Run method started.")

	handoff, err := a.Resolve(ctx)
	if err != nil {
		return err
	}

	if a.config.Check {
		a.logger.Info("Configuration is valid.", "path", a.config.ConfigPath)
		return nil
	}

	data, err := handoff.Encode(a.config.OutputFormat)
	if err != nil {
		return fmt.Errorf("failed to encode handoff: %w", err)
	}

	dest := a.config.OutputPath
	if dest == "" || dest == "-" {
		if _, err := outW.Write(data); err != nil {
			return fmt.Errorf("failed to write handoff: %w", err)
		}
		dest = "-"
	} else {
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return fmt.Errorf("failed to write handoff: %w", err)
		}
	}

	a.logger.Info("Handoff written.", "output", dest, "format", a.config.OutputFormat, "bytes", len(data))
	a.logger.Debug("App.Run method finished.")
	return nil
}
