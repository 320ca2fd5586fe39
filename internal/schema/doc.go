// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package schema declares the recognized keys of a training configuration.
//
// A Registry is an ordered, read-only table of Entry values. Each entry names
// a dotted key path, the type its value must coerce to, and how an absent
// value is resolved: a literal default, a default copied from another path,
// null, or an error because the key is required (unconditionally or when a
// Condition holds).
//
// Registries are built once with New and never modified afterwards, so a
// single instance can be shared by every binder in the process. Default
// returns the built-in table for the training framework.
package schema
