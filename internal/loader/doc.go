// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package loader reads configuration documents from disk.
//
// The format is chosen by file extension. A document may pull in other
// documents through a top-level "includes" key holding a path or a list of
// paths, each relative to the including file. A directory include loads
// every YAML file below it in lexical order. Included documents are merged
// in the order listed and the including document is merged on top, so a
// file always overrides what it includes.
//
// The loader keeps the bytes of every file it reads so that validation
// errors can later be rendered with source snippets.
package loader
