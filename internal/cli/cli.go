// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/vk/trainconf/internal/app"
	"github.com/vk/trainconf/internal/config"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := pflag.NewFlagSet("trainconf", pflag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.SortFlags = false

	flagSet.Usage = func() {
		fmt.Fprint(output, `
trainconf - Resolve and validate training configurations.

Usage:
  trainconf [options] [CONFIG_YML]

Arguments:
  CONFIG_YML
    Path to a .yml, .json, .jsonc or .hcl configuration file.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.StringP("config-yml", "c", "", "Path to the configuration file.")
	setFlag := flagSet.StringArrayP("set", "s", nil, "Override a value, e.g. optim.batch_size=8. May be repeated; later values win.")
	outputFormatFlag := flagSet.String("output-format", string(config.FormatYAML), fmt.Sprintf("Handoff format. Options: %s.", joinFormats()))
	outputFlag := flagSet.StringP("output", "o", "-", "Where to write the handoff. '-' is stdout.")
	checkFlag := flagSet.Bool("check", false, "Validate the configuration without writing a handoff.")
	modeFlag := flagSet.String("mode", config.ModeTrain, "Run mode: 'train', 'predict', 'validate' or 'run-relaxations'.")
	seedFlag := flagSet.Int("seed", 0, "Random seed.")
	runDirFlag := flagSet.String("run-dir", "./", "Directory for checkpoints, logs and results.")
	identifierFlag := flagSet.String("identifier", "", "Experiment identifier. Defaults to a random UUID.")
	checkpointFlag := flagSet.String("checkpoint", "", "Model checkpoint to load. Required for predict.")
	cpuFlag := flagSet.Bool("cpu", false, "Run on CPU only.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := *configFlag
	if path == "" && flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Config path determined.", "path", path)

	if path == "" {
		slog.Debug("No config path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	format, err := config.ParseFormat(strings.ToLower(*outputFormatFlag))
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	cfg, err := app.NewConfig(app.Config{
		ConfigPath:   path,
		Overrides:    *setFlag,
		OutputFormat: format,
		OutputPath:   *outputFlag,
		Check:        *checkFlag,
		LogFormat:    strings.ToLower(*logFormatFlag),
		LogLevel:     strings.ToLower(*logLevelFlag),
		Run: config.Run{
			Mode:       *modeFlag,
			Seed:       *seedFlag,
			RunDir:     *runDirFlag,
			Identifier: *identifierFlag,
			Checkpoint: *checkpointFlag,
			CPU:        *cpuFlag,
		},
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

func joinFormats() string {
	names := make([]string, len(config.Formats))
	for i, f := range config.Formats {
		names[i] = "'" + string(f) + "'"
	}
	return strings.Join(names, ", ")
}
