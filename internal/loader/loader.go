// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package loader

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/trainconf/internal/config"
	"github.com/vk/trainconf/internal/ctxlog"
	"github.com/vk/trainconf/internal/document"
	"github.com/vk/trainconf/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
)

// IncludesKey is the top-level key listing documents to merge in.
const IncludesKey = "includes"

var _ config.Loader = (*Loader)(nil)

// Loader is the file-system implementation of config.Loader.
type Loader struct {
	files map[string]*hcl.File
}

// New creates a loader.
func New() *Loader {
	return &Loader{files: make(map[string]*hcl.File)}
}

// Load reads the document at path together with everything it includes.
func (l *Loader) Load(ctx context.Context, path string) (*document.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loader started.", "path", path)

	doc, err := l.load(ctx, path, nil)
	if err != nil {
		return nil, err
	}

	logger.Debug("Loading complete.", "path", path, "files", len(l.files))
	return doc, nil
}

// Files returns the source of every file read so far, keyed by the name
// used in document positions.
func (l *Loader) Files() map[string]*hcl.File {
	return maps.Clone(l.files)
}

func (l *Loader) load(ctx context.Context, path string, stack []string) (*document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	for _, seen := range stack {
		if seen == abs {
			return nil, fmt.Errorf("include cycle: %s -> %s", strings.Join(stack, " -> "), abs)
		}
	}
	stack = append(stack, abs)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	l.files[path] = &hcl.File{Bytes: src}

	doc, err := document.Parse(path, src)
	if err != nil {
		return nil, err
	}

	includes, err := includePaths(doc)
	if err != nil {
		return nil, err
	}
	if len(includes) == 0 {
		return &document.Document{Filename: doc.Filename, Root: doc.Root.Without(IncludesKey)}, nil
	}

	logger := ctxlog.FromContext(ctx)
	merged := document.NewMapping(doc.Root.Pos)
	for _, inc := range includes {
		target := inc
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		files, err := expand(target)
		if err != nil {
			return nil, fmt.Errorf("%s: include %q: %w", path, inc, err)
		}
		for _, f := range files {
			logger.Debug("Including document.", "from", path, "path", f)
			included, err := l.load(ctx, f, stack)
			if err != nil {
				return nil, err
			}
			merged = document.Merge(merged, included.Root)
		}
	}
	merged = document.Merge(merged, doc.Root.Without(IncludesKey))

	return &document.Document{Filename: doc.Filename, Root: merged}, nil
}

// includePaths reads the includes key of doc, which may be a single path
// or a list of paths.
func includePaths(doc *document.Document) ([]string, error) {
	n := doc.Root.Get(IncludesKey)
	if n.IsNull() {
		return nil, nil
	}

	var items []*document.Node
	switch n.Kind {
	case document.KindScalar:
		items = []*document.Node{n}
	case document.KindSequence:
		items = n.Items
	default:
		return nil, &document.ParseError{Pos: n.Pos, Message: "includes must be a path or a list of paths"}
	}

	paths := make([]string, 0, len(items))
	for _, item := range items {
		if item.Kind != document.KindScalar || item.IsNull() || item.Scalar.Type() != cty.String {
			return nil, &document.ParseError{Pos: item.Pos, Message: "include path must be a string, got " + item.Describe()}
		}
		paths = append(paths, item.Scalar.AsString())
	}
	return paths, nil
}

// expand returns the documents an include target stands for: the file
// itself, or every YAML file below a directory.
func expand(target string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}
	files, err := fsutil.FindFiles(target, ".yml", ".yaml")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("directory %s contains no YAML documents", target)
	}
	return files, nil
}
