// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package config defines the resolved, strongly typed training configuration
// handed to the training framework, along with the Loader interface that
// turns a path on disk into an untyped document.
//
// A Config is built once by the binder and never modified afterwards. Every
// accessor returns a copy, so a single Config can be shared by any number of
// goroutines without locking. The Handoff type bundles a Config with the run
// arguments and serializes both for the framework.
package config
