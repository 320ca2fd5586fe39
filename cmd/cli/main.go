// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/trainconf/internal/app"
	"github.com/vk/trainconf/internal/cli"
	"github.com/vk/trainconf/internal/loader"
	"github.com/vk/trainconf/internal/schema"
)

// main is the entrypoint for the trainconf application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. The handoff goes to outW; usage, logs and diagnostics go to errW.
func run(outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	ldr := loader.New()
	trainApp, err := app.NewApp(errW, appConfig, ldr, schema.Default())
	if err != nil {
		return &cli.ExitError{Code: 2, Message: err.Error()}
	}

	if err := trainApp.Run(context.Background(), outW); err != nil {
		return cli.Report(errW, err, ldr.Files())
	}
	return nil
}
