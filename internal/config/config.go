// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"errors"
	"fmt"

	"github.com/vk/trainconf/internal/document"
	"github.com/vk/trainconf/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// resolvedPos marks nodes of a document rebuilt from a Config.
var resolvedPos = document.Pos{Filename: "<resolved>"}

// Values is the raw material of a Config: the resolved value of every
// entry, the unrecognized keys kept under open sections, and which optional
// sections are present.
type Values struct {
	// Fields maps an entry path to its coerced value. Null or missing
	// values resolve to the zero Optional.
	Fields map[string]cty.Value
	// Extras maps a section path to its unrecognized keys.
	Extras map[string]map[string]any
	// Sections records which optional sections are present.
	Sections map[string]bool
}

// Config is an immutable, resolved training configuration.
type Config struct {
	trainer           string
	dataset           Dataset
	logger            Logger
	task              Task
	model             Model
	optim             Optim
	outputs           map[string]any
	lossFunctions     any
	evaluationMetrics map[string]any

	doc         *document.Node
	fingerprint string
}

// New builds a Config from resolved values. The registry determines the
// key order of the document form.
func New(reg *schema.Registry, v Values) (*Config, error) {
	d := &decoder{fields: v.Fields, extras: v.Extras}
	c := &Config{
		trainer:           get[string](d, "trainer"),
		dataset:           d.dataset(v.Sections),
		logger:            d.logger(),
		task:              d.task(),
		model:             d.model(v.Sections),
		optim:             d.optim(),
		outputs:           d.mapping("outputs"),
		lossFunctions:     d.native("loss_functions"),
		evaluationMetrics: d.mapping("evaluation_metrics"),
	}
	if len(d.errs) > 0 {
		return nil, fmt.Errorf("decoding resolved values: %w", errors.Join(d.errs...))
	}

	doc, err := buildDocument(reg, v)
	if err != nil {
		return nil, fmt.Errorf("building document form: %w", err)
	}
	c.doc = doc

	fp, err := fingerprint(doc)
	if err != nil {
		return nil, fmt.Errorf("computing fingerprint: %w", err)
	}
	c.fingerprint = fp
	return c, nil
}

// buildDocument lays the resolved values out in registry order. Null values
// and absent optional sections are left out; unrecognized keys follow the
// recognized ones of their section in sorted order.
func buildDocument(reg *schema.Registry, v Values) (*document.Node, error) {
	root := document.NewMapping(resolvedPos)
	nodes := map[string]*document.Node{"": root}

	for _, e := range reg.Entries() {
		parent, ok := nodes[e.Parent()]
		if !ok {
			continue
		}
		if e.Type == schema.Section {
			if e.Optional && !v.Sections[e.Path] {
				continue
			}
			m := document.NewMapping(resolvedPos)
			parent.Set(e.Key(), resolvedPos, m)
			nodes[e.Path] = m
			continue
		}
		val, ok := v.Fields[e.Path]
		if !ok || val.IsNull() {
			continue
		}
		n, err := document.FromNative(document.ToNative(val), resolvedPos)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Path, err)
		}
		parent.Set(e.Key(), resolvedPos, n)
	}

	for _, e := range reg.Entries() {
		m, ok := nodes[e.Path]
		if !ok || len(v.Extras[e.Path]) == 0 {
			continue
		}
		extras, err := document.FromNative(v.Extras[e.Path], resolvedPos)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Path, err)
		}
		for _, entry := range extras.Entries {
			m.Set(entry.Key, resolvedPos, entry.Value)
		}
	}
	return root, nil
}

// Trainer returns the trainer implementation name.
func (c *Config) Trainer() string { return c.trainer }

// Dataset returns the dataset splits.
func (c *Config) Dataset() Dataset { return c.dataset.clone() }

// Logger returns the experiment logger settings.
func (c *Config) Logger() Logger { return c.logger.clone() }

// Task returns the task settings.
func (c *Config) Task() Task { return c.task.clone() }

// Model returns the model selection.
func (c *Config) Model() Model { return c.model.clone() }

// Optim returns the optimizer settings.
func (c *Config) Optim() Optim { return c.optim.clone() }

// Outputs returns the opaque output definitions, or nil.
func (c *Config) Outputs() map[string]any { return cloneMap(c.outputs) }

// LossFunctions returns the opaque loss definitions, or nil.
func (c *Config) LossFunctions() any { return cloneNative(c.lossFunctions) }

// EvaluationMetrics returns the opaque metric definitions, or nil.
func (c *Config) EvaluationMetrics() map[string]any { return cloneMap(c.evaluationMetrics) }

// Document returns the configuration in document form. Parsing the encoded
// document and binding it again yields an equal Config.
func (c *Config) Document() *document.Node { return c.doc.Clone() }

// Fingerprint identifies the configuration content. Equal configurations
// have equal fingerprints regardless of how their source was written.
func (c *Config) Fingerprint() string { return c.fingerprint }
