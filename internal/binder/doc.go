// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package binder validates a parsed document against a schema registry and
// produces a resolved config.Config.
//
// Binding runs in two passes. The first walks the document, matches every
// key to a registry entry and coerces its value, keeping unrecognized keys
// of open sections as extras and reporting the rest as warnings. The second
// walks the registry in order and resolves every entry that was not set:
// required keys become errors, conditional requirements are checked against
// the explicitly set values, and defaults fill in the rest.
//
// Every fatal problem is collected; Bind returns them together as a
// *ValidationErrors so that a user can fix a file in one pass.
package binder
