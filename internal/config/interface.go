// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"context"

	"github.com/vk/trainconf/internal/document"
)

// Loader is the interface for reading a configuration document from disk.
type Loader interface {
	// Load reads the document at path, expands anything it pulls in from
	// other files, and returns a single merged document.
	Load(ctx context.Context, path string) (*document.Document, error)
}
