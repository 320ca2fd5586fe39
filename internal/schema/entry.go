// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Entry describes one recognized key.
type Entry struct {
	// Path is the dotted key path, e.g. "optim.batch_size".
	Path        string
	Type        Type
	Description string

	// Required makes an absent or null value an error.
	Required bool
	// RequiredIf makes an absent value an error while the condition holds.
	RequiredIf *Condition
	// Default is used when the key is absent. cty.NilVal means no default.
	Default cty.Value
	// DefaultFrom names another entry whose resolved value is copied when
	// the key is absent.
	DefaultFrom string
	// Nullable allows an explicit null, and the strings "null" and "none",
	// to resolve to null.
	Nullable bool
	// OneOf restricts a string entry to a fixed set of values.
	OneOf []string

	// Open keeps unrecognized children of a section as extras instead of
	// reporting them.
	Open bool
	// Optional marks a section that may be left out entirely. Children of
	// an absent optional section are not resolved.
	Optional bool
	// Shorthand names the child a scalar section value is assigned to, so
	// that "logger: wandb" reads as "logger: {name: wandb}".
	Shorthand string
}

// Key returns the last element of the entry's path.
func (e Entry) Key() string {
	if i := strings.LastIndexByte(e.Path, '.'); i >= 0 {
		return e.Path[i+1:]
	}
	return e.Path
}

// Parent returns the path of the enclosing section, or "" for a top-level
// entry.
func (e Entry) Parent() string {
	if i := strings.LastIndexByte(e.Path, '.'); i >= 0 {
		return e.Path[:i]
	}
	return ""
}

// HasDefault reports whether the entry carries a literal default.
func (e Entry) HasDefault() bool {
	return e.Default != cty.NilVal
}

// Allows reports whether s is an accepted value for an entry with OneOf.
func (e Entry) Allows(s string) bool {
	if len(e.OneOf) == 0 {
		return true
	}
	for _, v := range e.OneOf {
		if v == s {
			return true
		}
	}
	return false
}

func (e Entry) String() string {
	var b strings.Builder
	b.WriteString(e.Path)
	b.WriteString(": ")
	b.WriteString(e.Type.String())
	switch {
	case e.Required:
		b.WriteString(", required")
	case e.RequiredIf != nil:
		b.WriteString(", required when ")
		b.WriteString(e.RequiredIf.String())
	case e.DefaultFrom != "":
		b.WriteString(", default ")
		b.WriteString(e.DefaultFrom)
	case e.HasDefault():
		b.WriteString(", default ")
		b.WriteString(formatDefault(e.Default))
	case e.Nullable:
		b.WriteString(", default null")
	}
	return b.String()
}

func formatDefault(v cty.Value) string {
	switch {
	case v.IsNull():
		return "null"
	case v.Type() == cty.String:
		return `"` + v.AsString() + `"`
	case v.Type() == cty.Bool:
		if v.True() {
			return "true"
		}
		return "false"
	case v.Type() == cty.Number:
		return v.AsBigFloat().Text('g', -1)
	case v.LengthInt() == 0:
		if v.Type().IsListType() || v.Type().IsTupleType() {
			return "[]"
		}
		return "{}"
	default:
		return v.GoString()
	}
}

// Builder helpers used by the built-in table.

func field(path string, t Type, desc string) Entry {
	return Entry{Path: path, Type: t, Description: desc}
}

func section(path, desc string) Entry {
	return Entry{Path: path, Type: Section, Description: desc}
}

func (e Entry) required() Entry {
	e.Required = true
	return e
}

func (e Entry) requiredIf(c *Condition) Entry {
	e.RequiredIf = c
	return e
}

func (e Entry) def(v cty.Value) Entry {
	e.Default = v
	return e
}

func (e Entry) defaultFrom(path string) Entry {
	e.DefaultFrom = path
	return e
}

func (e Entry) nullable() Entry {
	e.Nullable = true
	return e
}

func (e Entry) oneOf(values ...string) Entry {
	e.OneOf = values
	return e
}

func (e Entry) open() Entry {
	e.Open = true
	return e
}

func (e Entry) optional() Entry {
	e.Optional = true
	return e
}

func (e Entry) shorthand(key string) Entry {
	e.Shorthand = key
	return e
}
