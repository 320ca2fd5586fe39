// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"path/filepath"
	"strings"
)

// Format is a supported document syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
	FormatHCL
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatHCL:
		return "hcl"
	default:
		return "yaml"
	}
}

// FormatOf picks the syntax from a file extension. Unknown extensions are
// read as YAML.
func FormatOf(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".jsonc":
		return FormatJSON
	case ".hcl":
		return FormatHCL
	default:
		return FormatYAML
	}
}

// Parse reads src into a Document using the syntax implied by filename.
// The returned error is a *ParseError.
func Parse(filename string, src []byte) (*Document, error) {
	switch FormatOf(filename) {
	case FormatJSON:
		return parseJSON(filename, src)
	case FormatHCL:
		return parseHCL(filename, src)
	default:
		return parseYAML(filename, src)
	}
}

// ParseString parses YAML text that did not come from a file.
func ParseString(text string) (*Document, error) {
	return parseYAML("<string>", []byte(text))
}
