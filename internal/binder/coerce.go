// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package binder

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/vk/trainconf/internal/document"
	"github.com/vk/trainconf/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// boolWords are the YAML 1.1 boolean spellings, matched case-insensitively.
var boolWords = map[string]bool{
	"true": true, "yes": true, "on": true,
	"false": false, "no": false, "off": false,
}

// coerce converts n to the type of e. A null result means the key is to be
// treated as absent.
func coerce(e schema.Entry, n *document.Node) (cty.Value, error) {
	if isNullWord(n) && (e.Type != schema.String || e.Nullable) {
		return cty.NullVal(e.Type.CtyType()), nil
	}

	switch e.Type {
	case schema.Any:
		return n.CtyValue(), nil
	case schema.Mapping:
		if n.Kind != document.KindMapping {
			return cty.NilVal, mismatch(e.Path, e.Type.String(), n)
		}
		return n.CtyValue(), nil
	case schema.StringList, schema.FloatList:
		elem := schema.String
		if e.Type == schema.FloatList {
			elem = schema.Float
		}
		return coerceList(e.Path, e.Type, elem, n)
	case schema.StringMap:
		return coerceMap(e.Path, n)
	}

	v, err := coerceScalar(e.Path, e.Type, n)
	if err != nil {
		return cty.NilVal, err
	}
	if e.Type == schema.String && !e.Allows(v.AsString()) {
		return cty.NilVal, &InvalidValueError{Path: e.Path, Value: v.AsString(), Allowed: e.OneOf, Pos: n.Pos}
	}
	return v, nil
}

func coerceScalar(path string, t schema.Type, n *document.Node) (cty.Value, error) {
	if n.Kind != document.KindScalar || n.IsNull() {
		return cty.NilVal, mismatch(path, t.String(), n)
	}
	v := n.Scalar

	switch t {
	case schema.String:
		if v.Type() == cty.String {
			return v, nil
		}
		out, err := convert.Convert(v, cty.String)
		if err != nil {
			return cty.NilVal, mismatch(path, t.String(), n)
		}
		return out, nil

	case schema.Float:
		switch v.Type() {
		case cty.Number:
			return v, nil
		case cty.String:
			f, err := strconv.ParseFloat(strings.TrimSpace(v.AsString()), 64)
			if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
				return cty.NilVal, mismatch(path, t.String(), n)
			}
			return cty.NumberFloatVal(f), nil
		}

	case schema.Int:
		num := v
		if v.Type() == cty.String {
			f, err := strconv.ParseFloat(strings.TrimSpace(v.AsString()), 64)
			if err != nil || math.IsNaN(f) {
				return cty.NilVal, mismatch(path, t.String(), n)
			}
			num = cty.NumberFloatVal(f)
		}
		if num.Type() != cty.Number {
			break
		}
		bf := num.AsBigFloat()
		if !bf.IsInt() {
			return cty.NilVal, mismatch(path, t.String(), n)
		}
		i, acc := bf.Int64()
		if acc != big.Exact {
			return cty.NilVal, mismatch(path, t.String(), n)
		}
		return cty.NumberIntVal(i), nil

	case schema.Bool:
		switch v.Type() {
		case cty.Bool:
			return v, nil
		case cty.String:
			b, ok := boolWords[strings.ToLower(strings.TrimSpace(v.AsString()))]
			if !ok {
				return cty.NilVal, mismatch(path, t.String(), n)
			}
			return cty.BoolVal(b), nil
		}
	}
	return cty.NilVal, mismatch(path, t.String(), n)
}

func coerceList(path string, t, elem schema.Type, n *document.Node) (cty.Value, error) {
	if n.Kind != document.KindSequence {
		return cty.NilVal, mismatch(path, t.String(), n)
	}
	if len(n.Items) == 0 {
		return cty.ListValEmpty(elem.CtyType()), nil
	}
	vals := make([]cty.Value, len(n.Items))
	for i, item := range n.Items {
		v, err := coerceScalar(fmt.Sprintf("%s[%d]", path, i), elem, item)
		if err != nil {
			return cty.NilVal, err
		}
		vals[i] = v
	}
	return cty.ListVal(vals), nil
}

func coerceMap(path string, n *document.Node) (cty.Value, error) {
	if n.Kind != document.KindMapping {
		return cty.NilVal, mismatch(path, schema.StringMap.String(), n)
	}
	if len(n.Entries) == 0 {
		return cty.MapValEmpty(cty.String), nil
	}
	vals := make(map[string]cty.Value, len(n.Entries))
	for _, e := range n.Entries {
		v, err := coerceScalar(path+"."+e.Key, schema.String, e.Value)
		if err != nil {
			return cty.NilVal, err
		}
		vals[e.Key] = v
	}
	return cty.MapVal(vals), nil
}

// isNullWord reports whether n spells null as a string, as configuration
// files written for Python often do.
func isNullWord(n *document.Node) bool {
	if n.Kind != document.KindScalar || n.IsNull() || n.Scalar.Type() != cty.String {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(n.Scalar.AsString())) {
	case "null", "none", "~":
		return true
	}
	return false
}

func mismatch(path, expected string, n *document.Node) *TypeMismatchError {
	return &TypeMismatchError{Path: path, Expected: expected, Got: n.Describe(), Pos: n.Pos}
}
