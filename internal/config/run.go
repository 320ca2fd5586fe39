// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Run modes understood by the training framework.
const (
	ModeTrain           = "train"
	ModePredict         = "predict"
	ModeValidate        = "validate"
	ModeRunRelaxations  = "run-relaxations"
	timestampIDLayout   = "2006-01-02-15-04-05"
	defaultRunDirectory = "./"
)

var modes = []string{ModeTrain, ModePredict, ModeValidate, ModeRunRelaxations}

// Run holds the launch arguments that accompany a configuration. They are
// not part of the configuration document and do not affect its fingerprint.
type Run struct {
	Mode        string
	Seed        int
	RunDir      string
	Identifier  string
	Checkpoint  string
	CPU         bool
	TimestampID string
}

// WithDefaults fills unset fields. The identifier defaults to a random
// UUID and the timestamp id is derived from now and the identifier.
func (r Run) WithDefaults(now time.Time) Run {
	if r.Mode == "" {
		r.Mode = ModeTrain
	}
	if r.RunDir == "" {
		r.RunDir = defaultRunDirectory
	}
	if r.Identifier == "" {
		r.Identifier = uuid.NewString()
	}
	if r.TimestampID == "" {
		r.TimestampID = now.UTC().Format(timestampIDLayout) + "-" + r.Identifier
	}
	return r
}

// Validate checks the run arguments.
func (r Run) Validate() error {
	if !slices.Contains(modes, r.Mode) {
		return fmt.Errorf("invalid mode %q (must be one of %v)", r.Mode, modes)
	}
	if r.Seed < 0 {
		return fmt.Errorf("invalid seed %d (must be non-negative)", r.Seed)
	}
	if r.Mode == ModePredict && r.Checkpoint == "" {
		return fmt.Errorf("mode %q requires a checkpoint", r.Mode)
	}
	return nil
}
