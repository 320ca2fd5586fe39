package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/trainconf/internal/config"
)

func TestParse_Defaults(t *testing.T) {
	// --- Arrange ---
	out := &bytes.Buffer{}

	// --- Act ---
	cfg, shouldExit, err := Parse([]string{"config.yml"}, out)

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "config.yml", cfg.ConfigPath)
	assert.Equal(t, config.FormatYAML, cfg.OutputFormat)
	assert.Equal(t, "-", cfg.OutputPath)
	assert.Equal(t, config.ModeTrain, cfg.Run.Mode)
	assert.Equal(t, "./", cfg.Run.RunDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Overrides)
}

func TestParse_AllFlags(t *testing.T) {
	args := []string{
		"-c", "base.yml",
		"-s", "optim.batch_size=8",
		"--set", "optim.batch_size=16",
		"--output-format", "JSON",
		"-o", "out/handoff.json",
		"--check",
		"--mode", "predict",
		"--seed", "3",
		"--run-dir", "runs",
		"--identifier", "exp1",
		"--checkpoint", "ckpt.pt",
		"--cpu",
		"--log-format", "json",
		"--log-level", "DEBUG",
	}

	cfg, shouldExit, err := Parse(args, &bytes.Buffer{})

	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, "base.yml", cfg.ConfigPath)
	assert.Equal(t, []string{"optim.batch_size=8", "optim.batch_size=16"}, cfg.Overrides)
	assert.Equal(t, config.FormatJSON, cfg.OutputFormat)
	assert.Equal(t, "out/handoff.json", cfg.OutputPath)
	assert.True(t, cfg.Check)
	assert.Equal(t, config.Run{
		Mode:       config.ModePredict,
		Seed:       3,
		RunDir:     "runs",
		Identifier: "exp1",
		Checkpoint: "ckpt.pt",
		CPU:        true,
	}, cfg.Run)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_OverrideValueWithComma(t *testing.T) {
	cfg, _, err := Parse([]string{"config.yml", "-s", "task.labels=[energy, forces]"}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, []string{"task.labels=[energy, forces]"}, cfg.Overrides)
}

func TestParse_FlagTakesPrecedenceOverPositional(t *testing.T) {
	cfg, _, err := Parse([]string{"--config-yml", "a.yml", "b.yml"}, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Equal(t, "a.yml", cfg.ConfigPath)
}

func TestParse_HelpAndNoPath(t *testing.T) {
	for _, args := range [][]string{{"-h"}, {}} {
		out := &bytes.Buffer{}

		cfg, shouldExit, err := Parse(args, out)

		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown flag", args: []string{"--nope", "c.yml"}, wantErr: "unknown flag: --nope"},
		{name: "bad output format", args: []string{"--output-format", "toml", "c.yml"}, wantErr: "unsupported output format"},
		{name: "bad log level", args: []string{"--log-level", "trace", "c.yml"}, wantErr: "invalid log level"},
		{name: "bad log format", args: []string{"--log-format", "xml", "c.yml"}, wantErr: "invalid log format"},
		{name: "bad mode", args: []string{"--mode", "fit", "c.yml"}, wantErr: "invalid mode"},
		{name: "negative seed", args: []string{"--seed", "-1", "c.yml"}, wantErr: "seed"},
		{name: "predict without checkpoint", args: []string{"--mode", "predict", "c.yml"}, wantErr: "checkpoint"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Parse(tc.args, &bytes.Buffer{})

			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.wantErr)
		})
	}
}
