// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"

	"github.com/vk/trainconf/internal/binder"
	"github.com/vk/trainconf/internal/config"
	"github.com/vk/trainconf/internal/ctxlog"
	"github.com/vk/trainconf/internal/document"
)

// Resolve loads the configuration, applies the overrides, and binds the
// result against the registry. Unknown keys are logged as warnings. A
// validation failure is returned as *binder.ValidationErrors.
func (a *App) Resolve(ctx context.Context) (*config.Handoff, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("Resolving configuration.", "path", a.config.ConfigPath)

	doc, err := a.loader.Load(ctx, a.config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	a.logger.Debug("Configuration loaded.", "sections", len(doc.Root.Entries))

	if len(a.overrides) > 0 {
		doc = &document.Document{
			Filename: doc.Filename,
			Root:     document.ApplyOverrides(doc.Root, a.overrides),
		}
		a.logger.Debug("Overrides applied.", "count", len(a.overrides))
	}

	cfg, warnings, err := binder.Bind(doc, a.registry)
	for _, w := range warnings {
		a.logger.Warn("Unknown configuration key ignored.", "path", w.Path, "pos", w.Pos.String())
	}
	if err != nil {
		return nil, err
	}

	run := a.config.Run.WithDefaults(a.now())
	a.logger.Info("Configuration resolved.",
		"fingerprint", cfg.Fingerprint(),
		"trainer", cfg.Trainer(),
		"model", cfg.Model().Name,
		"mode", run.Mode,
		"identifier", run.Identifier,
	)
	return &config.Handoff{Run: run, Config: cfg}, nil
}
