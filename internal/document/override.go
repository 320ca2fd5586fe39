// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Override is a single "dotted.path=value" assignment layered on top of a
// loaded document.
type Override struct {
	Path  []string
	Value *Node
	Raw   string
}

// ParseOverride parses "section.key=value". The value is read as a YAML
// flow value, so "5", "1.e-4", "[1, 2]", "{a: 1}" and "null" all keep their
// natural types. An empty value is null.
func ParseOverride(raw string) (Override, error) {
	key, val, ok := strings.Cut(raw, "=")
	if !ok {
		return Override{}, fmt.Errorf("override %q: expected key=value", raw)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Override{}, fmt.Errorf("override %q: empty key", raw)
	}
	path := strings.Split(key, ".")
	for _, p := range path {
		if p == "" {
			return Override{}, fmt.Errorf("override %q: empty path segment", raw)
		}
	}

	pos := Pos{Filename: "--set " + raw}
	value := NewNull(pos)
	var y yaml.Node
	if err := yaml.Unmarshal([]byte(val), &y); err != nil {
		return Override{}, fmt.Errorf("override %q: %w", raw, yamlParseError(pos.Filename, err))
	}
	if len(y.Content) > 0 {
		b := newYAMLBuilder(pos.Filename, []byte(val))
		n, err := b.build(y.Content[0], 0)
		if err != nil {
			return Override{}, fmt.Errorf("override %q: %w", raw, err)
		}
		value = relocate(n, pos)
	}
	return Override{Path: path, Value: value, Raw: raw}, nil
}

// Node wraps the override value in the mappings named by its path.
func (o Override) Node() *Node {
	pos := o.Value.Pos
	n := o.Value
	for i := len(o.Path) - 1; i >= 0; i-- {
		m := NewMapping(pos)
		m.Entries = []*Entry{{Key: o.Path[i], KeyPos: pos, Value: n}}
		n = m
	}
	return n
}

// ApplyOverrides merges each override onto root in order and returns the
// result. Later overrides win over earlier ones and over the file.
func ApplyOverrides(root *Node, overrides []Override) *Node {
	out := root.Clone()
	for _, o := range overrides {
		out = Merge(out, o.Node())
	}
	return out
}

// relocate points every position in n at pos; override values have no line
// in any file.
func relocate(n *Node, pos Pos) *Node {
	n.Pos = pos
	for _, e := range n.Entries {
		e.KeyPos = pos
		relocate(e.Value, pos)
	}
	for _, item := range n.Items {
		relocate(item, pos)
	}
	return n
}
