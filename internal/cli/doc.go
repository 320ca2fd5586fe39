// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes and the
// rendering of configuration diagnostics. It translates CLI flags into the
// application's internal configuration.
package cli
