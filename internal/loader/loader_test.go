package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/trainconf/internal/binder"
	"github.com/vk/trainconf/internal/document"
	"github.com/vk/trainconf/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const yamlConfig = `dataset:
  train:
    src: data/train
model:
  name: hydra
  backbone:
    model: gemnet_oc_backbone
    cutoff: 6.0
  heads:
    energy:
      module: energy_head
optim:
  batch_size: 5
  lr_initial: 1.e-4
  max_epochs: 1
  scheduler: Null
`

const jsoncConfig = `{
  // same configuration, written as JSON with comments
  "dataset": {"train": {"src": "data/train"}},
  "model": {
    "name": "hydra",
    "backbone": {"model": "gemnet_oc_backbone", "cutoff": 6.0},
    "heads": {"energy": {"module": "energy_head"}},
  },
  "optim": {"batch_size": 5, "lr_initial": 1e-4, "max_epochs": 1, "scheduler": null},
}
`

const hclConfig = `
dataset "train" {
  src = "data/train"
}

model {
  name = "hydra"
  backbone = {
    model  = "gemnet_oc_backbone"
    cutoff = 6.0
  }
  heads = {
    energy = { module = "energy_head" }
  }
}

optim {
  batch_size = 5
  lr_initial = 1e-4
  max_epochs = 1
  scheduler  = null
}
`

func TestLoad_FormatsResolveToSameConfig(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "config.yml", yamlConfig),
		writeFile(t, dir, "config.jsonc", jsoncConfig),
		writeFile(t, dir, "config.hcl", hclConfig),
	}

	// --- Act ---
	var fingerprints []string
	for _, path := range paths {
		doc, err := New().Load(context.Background(), path)
		require.NoError(t, err, path)
		cfg, warnings, err := binder.Bind(doc, schema.Default())
		require.NoError(t, err, path)
		assert.Empty(t, warnings, path)
		assert.Equal(t, 0.0001, cfg.Optim().LRInitial, path)
		fingerprints = append(fingerprints, cfg.Fingerprint())
	}

	// --- Assert ---
	assert.Equal(t, fingerprints[0], fingerprints[1])
	assert.Equal(t, fingerprints[0], fingerprints[2])
}

func TestLoad_Includes(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	writeFile(t, dir, "base/optim.yml", "optim:\n  batch_size: 5\n  lr_initial: 0.001\n  max_epochs: 10\n")
	writeFile(t, dir, "base/model.yml", "model:\n  name: gemnet_oc\n  cutoff: 12.0\n")
	main := writeFile(t, dir, "configs/main.yml", `includes:
  - ../base/optim.yml
  - ../base/model.yml
dataset:
  train:
    src: data/train
optim:
  max_epochs: 2
`)
	l := New()

	// --- Act ---
	doc, err := l.Load(context.Background(), main)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, main, doc.Filename)
	assert.Nil(t, doc.Root.Get(IncludesKey))
	assert.Equal(t, []string{"optim", "model", "dataset"}, doc.Root.Keys())
	assert.Equal(t, cty.NumberIntVal(2), doc.Root.Lookup("optim.max_epochs").Scalar)
	assert.Equal(t, cty.NumberIntVal(5), doc.Root.Lookup("optim.batch_size").Scalar)
	assert.Equal(t, cty.StringVal("gemnet_oc"), doc.Root.Lookup("model.name").Scalar)

	// Values keep the position of the file they came from.
	assert.Equal(t, filepath.Join(dir, "base", "optim.yml"), doc.Root.Get("optim").Entry("batch_size").KeyPos.Filename)

	assert.Len(t, l.Files(), 3)
	assert.Contains(t, l.Files(), main)
}

func TestLoad_DirectoryInclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "parts/20-late.yml", "trainer: late\n")
	writeFile(t, dir, "parts/10-early.yaml", "trainer: early\nlogger: wandb\n")
	writeFile(t, dir, "parts/README.md", "not a config")
	main := writeFile(t, dir, "main.yml", "includes: parts\n")

	doc, err := New().Load(context.Background(), main)

	require.NoError(t, err)
	assert.Equal(t, cty.StringVal("late"), doc.Root.Get("trainer").Scalar)
	assert.Equal(t, cty.StringVal("wandb"), doc.Root.Get("logger").Scalar)
}

func TestLoad_EmptyIncludesIsStripped(t *testing.T) {
	// --- Arrange ---
	dir := t.TempDir()
	main := writeFile(t, dir, "main.yml", "includes: []\n"+yamlConfig)

	// --- Act ---
	doc, err := New().Load(context.Background(), main)
	require.NoError(t, err)
	_, warnings, err := binder.Bind(doc, schema.Default())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"dataset", "model", "optim"}, doc.Root.Keys())
	assert.Empty(t, warnings)
}

func TestLoad_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yml", "includes: b.yml\ntrainer: a\n")
	writeFile(t, dir, "b.yml", "includes: [a.yml]\n")

	_, err := New().Load(context.Background(), a)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "include cycle")
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := New().Load(context.Background(), filepath.Join(dir, "absent.yml"))

		assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
	})

	t.Run("missing include", func(t *testing.T) {
		path := writeFile(t, dir, "dangling.yml", "includes: nowhere.yml\n")

		_, err := New().Load(context.Background(), path)

		assert.True(t, errors.Is(err, os.ErrNotExist), "got %v", err)
	})

	t.Run("parse error in include", func(t *testing.T) {
		writeFile(t, dir, "broken.yml", "optim:\n  batch_size: [1\n")
		path := writeFile(t, dir, "includes-broken.yml", "includes: broken.yml\n")

		_, err := New().Load(context.Background(), path)

		var perr *document.ParseError
		require.True(t, errors.As(err, &perr), "got %v", err)
		assert.Equal(t, filepath.Join(dir, "broken.yml"), perr.Filename)
	})

	t.Run("includes of wrong shape", func(t *testing.T) {
		path := writeFile(t, dir, "shape.yml", "includes:\n  path: a.yml\n")

		_, err := New().Load(context.Background(), path)

		var perr *document.ParseError
		require.True(t, errors.As(err, &perr), "got %v", err)
		assert.Equal(t, 2, perr.Line)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New().Load(ctx, filepath.Join(dir, "shape.yml"))

		assert.ErrorIs(t, err, context.Canceled)
	})
}
