// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file reads HCL into the same untyped tree as YAML.
//
// Attributes become mapping entries. Blocks become nested mappings, and
// block labels become further nesting levels, so both of these spell the
// same tree:
//
//	dataset "train" { src = "data/train" }
//	dataset { train = { src = "data/train" } }
//
// Expressions are evaluated without variables or functions; a configuration
// file is data, not a program.
package document

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

func parseHCL(filename string, src []byte) (*Document, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diagParseError(filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, parseErrorf(Pos{Filename: filename}, "unsupported HCL body")
	}

	b := &hclBuilder{explicit: make(map[*Node]bool)}
	root, err := b.body(body)
	if err != nil {
		return nil, err
	}
	return &Document{Filename: filename, Root: root}, nil
}

func diagParseError(filename string, diags hcl.Diagnostics) *ParseError {
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		msg := d.Summary
		if d.Detail != "" {
			msg += ": " + d.Detail
		}
		if d.Subject != nil {
			return parseErrorf(hclPos(d.Subject.Start, d.Subject.Filename), msg)
		}
		return parseErrorf(Pos{Filename: filename}, msg)
	}
	return parseErrorf(Pos{Filename: filename}, diags.Error())
}

func hclPos(p hcl.Pos, filename string) Pos {
	return Pos{Filename: filename, Line: p.Line, Column: p.Column, Byte: p.Byte}
}

type hclBuilder struct {
	// explicit marks mappings written as a block or attribute, as opposed
	// to the intermediate mappings created for block labels.
	explicit map[*Node]bool
}

type hclItem struct {
	attr  *hclsyntax.Attribute
	block *hclsyntax.Block
	start int
}

func (b *hclBuilder) body(body *hclsyntax.Body) (*Node, error) {
	m := NewMapping(hclPos(body.SrcRange.Start, body.SrcRange.Filename))
	b.explicit[m] = true

	items := make([]hclItem, 0, len(body.Attributes)+len(body.Blocks))
	for _, attr := range body.Attributes {
		items = append(items, hclItem{attr: attr, start: attr.SrcRange.Start.Byte})
	}
	for _, block := range body.Blocks {
		items = append(items, hclItem{block: block, start: block.TypeRange.Start.Byte})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].start < items[j].start })

	for _, it := range items {
		var err error
		if it.attr != nil {
			err = b.attribute(m, it.attr)
		} else {
			err = b.block(m, it.block)
		}
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (b *hclBuilder) attribute(m *Node, attr *hclsyntax.Attribute) error {
	keyPos := hclPos(attr.NameRange.Start, attr.NameRange.Filename)
	if m.Entry(attr.Name) != nil {
		return parseErrorf(keyPos, fmt.Sprintf("duplicate key %q in mapping", attr.Name))
	}
	val, err := b.expr(attr.Expr)
	if err != nil {
		return err
	}
	m.Entries = append(m.Entries, &Entry{Key: attr.Name, KeyPos: keyPos, Value: val})
	return nil
}

func (b *hclBuilder) block(m *Node, block *hclsyntax.Block) error {
	path := append([]string{block.Type}, block.Labels...)
	ranges := append([]hcl.Range{block.TypeRange}, block.LabelRanges...)

	parent := m
	for i, key := range path[:len(path)-1] {
		keyPos := hclPos(ranges[i].Start, ranges[i].Filename)
		existing := parent.Get(key)
		switch {
		case existing == nil:
			next := NewMapping(keyPos)
			parent.Entries = append(parent.Entries, &Entry{Key: key, KeyPos: keyPos, Value: next})
			parent = next
		case existing.Kind == KindMapping && !b.explicit[existing]:
			parent = existing
		default:
			return parseErrorf(keyPos, fmt.Sprintf("duplicate key %q in mapping", key))
		}
	}

	last := path[len(path)-1]
	lastRange := ranges[len(ranges)-1]
	keyPos := hclPos(lastRange.Start, lastRange.Filename)
	if parent.Entry(last) != nil {
		return parseErrorf(keyPos, fmt.Sprintf("duplicate block %q", last))
	}
	child, err := b.body(block.Body)
	if err != nil {
		return err
	}
	parent.Entries = append(parent.Entries, &Entry{Key: last, KeyPos: keyPos, Value: child})
	return nil
}

// expr converts an attribute expression. Object and tuple literals are
// walked directly so their entries keep source order and positions; any
// other expression is evaluated and converted from its cty value.
func (b *hclBuilder) expr(e hclsyntax.Expression) (*Node, error) {
	pos := hclPos(e.Range().Start, e.Range().Filename)
	switch x := e.(type) {
	case *hclsyntax.ObjectConsExpr:
		m := NewMapping(pos)
		b.explicit[m] = true
		for _, item := range x.Items {
			kv, diags := item.KeyExpr.Value(nil)
			keyPos := hclPos(item.KeyExpr.Range().Start, item.KeyExpr.Range().Filename)
			if diags.HasErrors() {
				return nil, diagParseError(pos.Filename, diags)
			}
			if kv.IsNull() || kv.Type() != cty.String {
				return nil, parseErrorf(keyPos, "object keys must be strings")
			}
			key := kv.AsString()
			if m.Entry(key) != nil {
				return nil, parseErrorf(keyPos, fmt.Sprintf("duplicate key %q in mapping", key))
			}
			val, err := b.expr(item.ValueExpr)
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, &Entry{Key: key, KeyPos: keyPos, Value: val})
		}
		return m, nil
	case *hclsyntax.TupleConsExpr:
		seq := NewSequence(pos)
		seq.Items = make([]*Node, 0, len(x.Exprs))
		for _, item := range x.Exprs {
			n, err := b.expr(item)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, n)
		}
		return seq, nil
	}

	v, diags := e.Value(nil)
	if diags.HasErrors() {
		return nil, diagParseError(pos.Filename, diags)
	}
	return fromCty(v, pos)
}

// fromCty converts an evaluated cty value into a tree. Object attributes
// come out in cty's lexical order.
func fromCty(v cty.Value, pos Pos) (*Node, error) {
	if v.IsNull() {
		return NewNull(pos), nil
	}
	if !v.IsWhollyKnown() {
		return nil, parseErrorf(pos, "value is not known without evaluation context")
	}
	ty := v.Type()
	switch {
	case ty == cty.String, ty == cty.Number, ty == cty.Bool:
		return NewScalar(pos, v), nil
	case ty.IsListType(), ty.IsTupleType(), ty.IsSetType():
		seq := NewSequence(pos)
		seq.Items = []*Node{}
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			n, err := fromCty(ev, pos)
			if err != nil {
				return nil, err
			}
			seq.Items = append(seq.Items, n)
		}
		return seq, nil
	case ty.IsMapType(), ty.IsObjectType():
		m := NewMapping(pos)
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			n, err := fromCty(ev, pos)
			if err != nil {
				return nil, err
			}
			m.Entries = append(m.Entries, &Entry{Key: k.AsString(), KeyPos: pos, Value: n})
		}
		return m, nil
	default:
		return nil, parseErrorf(pos, fmt.Sprintf("unsupported value of type %s", ty.FriendlyName()))
	}
}
