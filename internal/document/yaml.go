// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// maxAliasDepth bounds alias expansion so a self-referencing anchor cannot
// recurse forever.
const maxAliasDepth = 64

// A document may expand to at most baseNodeBudget nodes plus nodesPerByte
// nodes per byte of source. This bounds alias fan-out.
const (
	baseNodeBudget = 10_000
	nodesPerByte   = 64
)

var yamlErrLine = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

func parseYAML(filename string, src []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, yamlParseError(filename, err)
	}

	b := newYAMLBuilder(filename, src)
	if root.Kind == 0 || len(root.Content) == 0 {
		return &Document{Filename: filename, Root: NewMapping(b.lines.pos(filename, 1, 1))}, nil
	}

	top := root.Content[0]
	node, err := b.build(top, 0)
	if err != nil {
		return nil, err
	}
	if node.IsNull() {
		return &Document{Filename: filename, Root: NewMapping(node.Pos)}, nil
	}
	if node.Kind != KindMapping {
		return nil, parseErrorf(node.Pos, fmt.Sprintf("document root must be a mapping of sections, got a %s", node.Kind))
	}
	return &Document{Filename: filename, Root: node}, nil
}

func yamlParseError(filename string, err error) *ParseError {
	msg := err.Error()
	if m := yamlErrLine.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return parseErrorf(Pos{Filename: filename, Line: line}, m[2])
	}
	return parseErrorf(Pos{Filename: filename}, strings.TrimPrefix(msg, "yaml: "))
}

type yamlBuilder struct {
	filename string
	lines    *lineIndex
	// budget is the number of nodes left to build.
	budget int
}

func newYAMLBuilder(filename string, src []byte) *yamlBuilder {
	return &yamlBuilder{
		filename: filename,
		lines:    newLineIndex(src),
		budget:   baseNodeBudget + nodesPerByte*len(src),
	}
}

func (b *yamlBuilder) pos(y *yaml.Node) Pos {
	return b.lines.pos(b.filename, y.Line, y.Column)
}

func (b *yamlBuilder) build(y *yaml.Node, depth int) (*Node, error) {
	b.budget--
	if b.budget < 0 {
		return nil, parseErrorf(b.pos(y), "document expands to too many nodes; check for nested aliases")
	}
	switch y.Kind {
	case yaml.AliasNode:
		if depth >= maxAliasDepth || y.Alias == nil {
			return nil, parseErrorf(b.pos(y), "alias nesting is too deep")
		}
		return b.build(y.Alias, depth+1)
	case yaml.ScalarNode:
		v, err := yamlScalar(y)
		if err != nil {
			return nil, parseErrorf(b.pos(y), err.Error())
		}
		return NewScalar(b.pos(y), v), nil
	case yaml.SequenceNode:
		seq := NewSequence(b.pos(y))
		seq.Items = make([]*Node, 0, len(y.Content))
		for _, c := range y.Content {
			item, err := b.build(c, depth)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, item)
		}
		return seq, nil
	case yaml.MappingNode:
		return b.mapping(y, depth)
	default:
		return nil, parseErrorf(b.pos(y), "unsupported YAML node")
	}
}

func (b *yamlBuilder) mapping(y *yaml.Node, depth int) (*Node, error) {
	m := NewMapping(b.pos(y))
	seen := make(map[string]Pos, len(y.Content)/2)

	var merged []*Entry
	for i := 0; i+1 < len(y.Content); i += 2 {
		k, v := y.Content[i], y.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, parseErrorf(b.pos(k), "mapping keys must be scalars")
		}
		if k.ShortTag() == "!!merge" {
			entries, err := b.mergeKey(v, depth)
			if err != nil {
				return nil, err
			}
			merged = append(merged, entries...)
			continue
		}

		keyPos := b.pos(k)
		if first, dup := seen[k.Value]; dup {
			return nil, parseErrorf(keyPos, fmt.Sprintf("duplicate key %q in mapping (first defined at line %d)", k.Value, first.Line))
		}
		seen[k.Value] = keyPos

		val, err := b.build(v, depth)
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, &Entry{Key: k.Value, KeyPos: keyPos, Value: val})
	}

	// Explicit keys win over keys pulled in through "<<".
	for _, e := range merged {
		if _, explicit := seen[e.Key]; explicit {
			continue
		}
		seen[e.Key] = e.KeyPos
		m.Entries = append(m.Entries, e)
	}
	return m, nil
}

func (b *yamlBuilder) mergeKey(v *yaml.Node, depth int) ([]*Entry, error) {
	src, err := b.build(v, depth)
	if err != nil {
		return nil, err
	}
	sources := []*Node{src}
	if src.Kind == KindSequence {
		sources = src.Items
	}
	var out []*Entry
	for _, s := range sources {
		if s.Kind != KindMapping {
			return nil, parseErrorf(s.Pos, "merge key value must be a mapping or a list of mappings")
		}
		out = append(out, s.Entries...)
	}
	return out, nil
}

// yamlScalar converts a resolved YAML scalar into its cty value. Tags other
// than null, bool, int and float are kept as strings.
func yamlScalar(y *yaml.Node) (cty.Value, error) {
	switch y.ShortTag() {
	case "!!null":
		return cty.NullVal(cty.DynamicPseudoType), nil
	case "!!bool":
		bv, err := strconv.ParseBool(strings.ToLower(y.Value))
		if err != nil {
			return cty.StringVal(y.Value), nil
		}
		return cty.BoolVal(bv), nil
	case "!!int":
		return parseInt(y.Value)
	case "!!float":
		return parseFloat(y.Value)
	default:
		return cty.StringVal(y.Value), nil
	}
}

func parseInt(s string) (cty.Value, error) {
	if i, err := strconv.ParseInt(s, 0, 64); err == nil {
		return cty.NumberIntVal(i), nil
	}
	v, err := cty.ParseNumberVal(strings.ReplaceAll(s, "_", ""))
	if err != nil {
		return cty.NilVal, fmt.Errorf("invalid integer %q", s)
	}
	return v, nil
}

func parseFloat(s string) (cty.Value, error) {
	switch strings.ToLower(s) {
	case ".inf", "+.inf", "-.inf":
		return cty.NilVal, fmt.Errorf("infinity is not a valid configuration value")
	case ".nan":
		return cty.NilVal, fmt.Errorf("NaN is not a valid configuration value")
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return cty.NilVal, fmt.Errorf("invalid number %q", s)
	}
	return cty.NumberFloatVal(f), nil
}
