// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	KindScalar Kind = iota
	KindMapping
	KindSequence
)

func (k Kind) String() string {
	switch k {
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// Pos is a location in a source file. Line and Column are 1-based; a zero
// Line means the position is unknown (e.g. a value from a command-line
// override).
type Pos struct {
	Filename string
	Line     int
	Column   int
	Byte     int
}

func (p Pos) String() string {
	switch {
	case p.Line == 0:
		return p.Filename
	case p.Column == 0:
		return fmt.Sprintf("%s:%d", p.Filename, p.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
	}
}

// Range converts the position into a single-character hcl.Range for
// diagnostics. It returns nil when the position is unknown.
func (p Pos) Range() *hcl.Range {
	if p.Line == 0 {
		return nil
	}
	col := p.Column
	if col == 0 {
		col = 1
	}
	return &hcl.Range{
		Filename: p.Filename,
		Start:    hcl.Pos{Line: p.Line, Column: col, Byte: p.Byte},
		End:      hcl.Pos{Line: p.Line, Column: col + 1, Byte: p.Byte + 1},
	}
}

// Node is a single value in a configuration tree.
type Node struct {
	Kind Kind
	// Scalar is the value of a scalar node: a cty string, number or bool,
	// or a null of cty.DynamicPseudoType.
	Scalar  cty.Value
	Entries []*Entry
	Items   []*Node
	Pos     Pos
}

// Entry is one key/value pair of a mapping node.
type Entry struct {
	Key    string
	KeyPos Pos
	Value  *Node
}

// Document is a parsed configuration file.
type Document struct {
	Filename string
	Root     *Node
}

// NewMapping returns an empty mapping node.
func NewMapping(pos Pos) *Node {
	return &Node{Kind: KindMapping, Pos: pos}
}

// NewSequence returns a sequence node holding items.
func NewSequence(pos Pos, items ...*Node) *Node {
	return &Node{Kind: KindSequence, Items: items, Pos: pos}
}

// NewScalar returns a scalar node holding v.
func NewScalar(pos Pos, v cty.Value) *Node {
	return &Node{Kind: KindScalar, Scalar: v, Pos: pos}
}

// NewNull returns a null scalar.
func NewNull(pos Pos) *Node {
	return NewScalar(pos, cty.NullVal(cty.DynamicPseudoType))
}

// IsNull reports whether n is absent or a null scalar.
func (n *Node) IsNull() bool {
	return n == nil || (n.Kind == KindScalar && n.Scalar.IsNull())
}

// Entry returns the mapping entry for key, or nil.
func (n *Node) Entry(key string) *Entry {
	if n == nil || n.Kind != KindMapping {
		return nil
	}
	for _, e := range n.Entries {
		if e.Key == key {
			return e
		}
	}
	return nil
}

// Get returns the value stored under key in a mapping, or nil.
func (n *Node) Get(key string) *Node {
	if e := n.Entry(key); e != nil {
		return e.Value
	}
	return nil
}

// Lookup follows a dotted path through nested mappings.
func (n *Node) Lookup(path string) *Node {
	cur := n
	for _, key := range strings.Split(path, ".") {
		cur = cur.Get(key)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// Keys returns the mapping keys in source order.
func (n *Node) Keys() []string {
	if n == nil || n.Kind != KindMapping {
		return nil
	}
	keys := make([]string, len(n.Entries))
	for i, e := range n.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Set replaces or appends key in a mapping. It is meant for building trees;
// parsed trees are treated as read-only.
func (n *Node) Set(key string, keyPos Pos, v *Node) {
	if e := n.Entry(key); e != nil {
		e.KeyPos = keyPos
		e.Value = v
		return
	}
	n.Entries = append(n.Entries, &Entry{Key: key, KeyPos: keyPos, Value: v})
}

// Without returns a copy of the mapping with key removed.
func (n *Node) Without(key string) *Node {
	out := n.Clone()
	if out == nil || out.Kind != KindMapping {
		return out
	}
	kept := out.Entries[:0]
	for _, e := range out.Entries {
		if e.Key != key {
			kept = append(kept, e)
		}
	}
	out.Entries = kept
	return out
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Scalar: n.Scalar, Pos: n.Pos}
	if n.Entries != nil {
		out.Entries = make([]*Entry, len(n.Entries))
		for i, e := range n.Entries {
			out.Entries[i] = &Entry{Key: e.Key, KeyPos: e.KeyPos, Value: e.Value.Clone()}
		}
	}
	if n.Items != nil {
		out.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			out.Items[i] = item.Clone()
		}
	}
	return out
}

// CtyValue returns the tree rooted at n as a cty value: mappings become
// objects, sequences become tuples.
func (n *Node) CtyValue() cty.Value {
	if n == nil {
		return cty.NullVal(cty.DynamicPseudoType)
	}
	switch n.Kind {
	case KindMapping:
		if len(n.Entries) == 0 {
			return cty.EmptyObjectVal
		}
		attrs := make(map[string]cty.Value, len(n.Entries))
		for _, e := range n.Entries {
			attrs[e.Key] = e.Value.CtyValue()
		}
		return cty.ObjectVal(attrs)
	case KindSequence:
		if len(n.Items) == 0 {
			return cty.EmptyTupleVal
		}
		vals := make([]cty.Value, len(n.Items))
		for i, item := range n.Items {
			vals[i] = item.CtyValue()
		}
		return cty.TupleVal(vals)
	default:
		if n.Scalar.IsNull() {
			return cty.NullVal(cty.DynamicPseudoType)
		}
		return n.Scalar
	}
}

// Describe names the node's type and, for scalars, its value. It is used in
// type mismatch messages.
func (n *Node) Describe() string {
	if n.IsNull() {
		return "null"
	}
	switch n.Kind {
	case KindMapping, KindSequence:
		return n.Kind.String()
	}
	v := n.Scalar
	switch v.Type() {
	case cty.String:
		return fmt.Sprintf("string %q", v.AsString())
	case cty.Bool:
		return fmt.Sprintf("bool %t", v.True())
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			return "int " + bf.Text('f', 0)
		}
		return "float " + bf.Text('g', -1)
	default:
		return v.Type().FriendlyName()
	}
}
