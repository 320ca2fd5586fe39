// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package document provides the format-agnostic, untyped tree that every
// configuration file is parsed into before it is bound against the schema.
//
// # Core Concepts
//
//   - Document: a parsed file. It owns a single root mapping and the name of
//     the file it came from.
//
//   - Node: one value in the tree. A node is a mapping (ordered key/value
//     entries), a sequence, or a scalar. Scalars carry a cty.Value holding a
//     string, number, bool or null, exactly as written in the source.
//
//   - Pos: the file, line, column and byte offset of a node or key. Every
//     later diagnostic points back at a Pos, so the user can jump straight to
//     the offending line.
//
// YAML is the primary format. JSON with comments and HCL are accepted as
// alternative spellings of the same tree; all three produce identical nodes
// for identical content.
//
// The package also owns the operations that act on untyped trees: deep
// merging (used for includes and command-line overrides), override parsing,
// and encoding a tree back to YAML.
package document
