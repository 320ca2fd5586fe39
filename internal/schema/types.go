// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import "github.com/zclconf/go-cty/cty"

// Type is the type tag of an entry.
type Type int

const (
	String Type = iota + 1
	Int
	Float
	Bool
	StringList
	FloatList
	StringMap
	// Mapping is an opaque mapping handed to the trainer verbatim.
	Mapping
	// Any is an opaque value of any shape.
	Any
	// Section groups child entries.
	Section
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case StringList:
		return "list of string"
	case FloatList:
		return "list of float"
	case StringMap:
		return "map of string"
	case Mapping:
		return "mapping"
	case Any:
		return "any"
	case Section:
		return "section"
	default:
		return "invalid"
	}
}

// CtyType returns the cty type a coerced value of t has. Opaque types and
// sections map to cty.DynamicPseudoType.
func (t Type) CtyType() cty.Type {
	switch t {
	case String:
		return cty.String
	case Int, Float:
		return cty.Number
	case Bool:
		return cty.Bool
	case StringList:
		return cty.List(cty.String)
	case FloatList:
		return cty.List(cty.Number)
	case StringMap:
		return cty.Map(cty.String)
	default:
		return cty.DynamicPseudoType
	}
}

// Opaque reports whether values of t are kept as-is without coercion.
func (t Type) Opaque() bool {
	return t == Mapping || t == Any
}
