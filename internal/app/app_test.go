package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/trainconf/internal/binder"
	"github.com/vk/trainconf/internal/config"
	"github.com/vk/trainconf/internal/loader"
	"gopkg.in/yaml.v3"
)

const validYAML = `trainer: forces
dataset:
  train:
    src: data/train
logger: tensorboard
task:
  dataset: ase_db
model:
  name: gemnet_oc
  cutoff: 6.0
optim:
  batch_size: 5
  eval_batch_size: 2
  lr_initial: 1.e-4
  max_epochs: 1
`

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestNewConfig(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "missing path", cfg: Config{}, wantErr: "ConfigPath is a required"},
		{name: "bad format", cfg: Config{ConfigPath: "c.yml", OutputFormat: "toml"}, wantErr: "unsupported output format"},
		{name: "bad log format", cfg: Config{ConfigPath: "c.yml", LogFormat: "xml"}, wantErr: "invalid log format"},
		{name: "bad log level", cfg: Config{ConfigPath: "c.yml", LogLevel: "trace"}, wantErr: "invalid log level"},
		{name: "bad mode", cfg: Config{ConfigPath: "c.yml", Run: config.Run{Mode: "fit"}}, wantErr: "invalid mode"},
		{name: "predict without checkpoint", cfg: Config{ConfigPath: "c.yml", Run: config.Run{Mode: config.ModePredict}}, wantErr: "checkpoint"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig(Config{ConfigPath: "c.yml"})

	require.NoError(t, err)
	assert.Equal(t, config.FormatYAML, cfg.OutputFormat)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, config.ModeTrain, cfg.Run.Mode)
}

func TestNewApp_InvalidOverride(t *testing.T) {
	cfg, err := NewConfig(Config{ConfigPath: "c.yml", Overrides: []string{"optim.batch_size"}})
	require.NoError(t, err)

	_, err = NewApp(&SafeBuffer{}, cfg, loader.New(), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid override")
}

func TestRun_WritesYAMLHandoff(t *testing.T) {
	// --- Arrange ---
	path := writeConfig(t, validYAML)
	testApp, logs := SetupAppTest(t, Config{
		ConfigPath: path,
		Run:        config.Run{Seed: 7, Identifier: "abc"},
	})
	var out bytes.Buffer

	// --- Act ---
	err := testApp.Run(context.Background(), &out)

	// --- Assert ---
	require.NoError(t, err)

	var handoff map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &handoff))
	assert.Len(t, handoff["fingerprint"], 64)

	run := handoff["run"].(map[string]any)
	assert.Equal(t, "train", run["mode"])
	assert.Equal(t, 7, run["seed"])
	assert.Equal(t, "abc", run["identifier"])
	assert.Equal(t, "2025-01-02-03-04-05-abc", run["timestamp_id"])

	cfg := handoff["config"].(map[string]any)
	assert.Equal(t, "forces", cfg["trainer"])
	assert.Equal(t, 5, cfg["optim"].(map[string]any)["batch_size"])

	assert.Contains(t, logs.String(), "Configuration resolved.")
	assert.Contains(t, logs.String(), "Handoff written.")
}

func TestResolve_OverridesLastWins(t *testing.T) {
	// --- Arrange ---
	path := writeConfig(t, validYAML)
	testApp, _ := SetupAppTest(t, Config{
		ConfigPath: path,
		Overrides:  []string{"optim.batch_size=8", "optim.batch_size=16", "logger.project=ocp", "logger.tags=nightly"},
	})

	// --- Act ---
	handoff, err := testApp.Resolve(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 16, handoff.Config.Optim().BatchSize)
	assert.Equal(t, "tensorboard", handoff.Config.Logger().Name)
	project, ok := handoff.Config.Logger().Project.Get()
	assert.True(t, ok)
	assert.Equal(t, "ocp", project)
	assert.Equal(t, "nightly", handoff.Config.Logger().Extras["tags"])
}

func TestResolve_UnknownKeyIsLogged(t *testing.T) {
	path := writeConfig(t, validYAML+"foo: bar\n")
	testApp, logs := SetupAppTest(t, Config{ConfigPath: path})

	_, err := testApp.Resolve(context.Background())

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "Unknown configuration key ignored.")
	assert.Contains(t, logs.String(), "path=foo")
}

func TestResolve_ValidationErrors(t *testing.T) {
	path := writeConfig(t, validYAML)
	testApp, _ := SetupAppTest(t, Config{
		ConfigPath: path,
		Overrides:  []string{"optim.batch_size=", "model.name=hydra"},
	})

	_, err := testApp.Resolve(context.Background())

	var verrs *binder.ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
	assert.Contains(t, err.Error(), "optim.batch_size")
	assert.Contains(t, err.Error(), "model.heads")
}

func TestResolve_LoadError(t *testing.T) {
	testApp, _ := SetupAppTest(t, Config{ConfigPath: filepath.Join(t.TempDir(), "missing.yml")})

	_, err := testApp.Resolve(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestRun_CheckWritesNothing(t *testing.T) {
	path := writeConfig(t, validYAML)
	testApp, logs := SetupAppTest(t, Config{ConfigPath: path, Check: true})
	var out bytes.Buffer

	err := testApp.Run(context.Background(), &out)

	require.NoError(t, err)
	assert.Zero(t, out.Len())
	assert.Contains(t, logs.String(), "Configuration is valid.")
}

func TestRun_WritesFile(t *testing.T) {
	// --- Arrange ---
	path := writeConfig(t, validYAML)
	dest := filepath.Join(t.TempDir(), "run", "handoff.cbor")
	testApp, _ := SetupAppTest(t, Config{
		ConfigPath:   path,
		OutputFormat: config.FormatCBOR,
		OutputPath:   dest,
		Run:          config.Run{Identifier: "abc"},
	})
	var out bytes.Buffer

	// --- Act ---
	err := testApp.Run(context.Background(), &out)

	// --- Assert ---
	require.NoError(t, err)
	assert.Zero(t, out.Len())

	written, err := os.ReadFile(dest)
	require.NoError(t, err)

	handoff, err := testApp.Resolve(context.Background())
	require.NoError(t, err)
	want, err := handoff.Encode(config.FormatCBOR)
	require.NoError(t, err)
	assert.Equal(t, want, written)
}
