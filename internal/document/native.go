// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file converts between cty values and plain Go values. Opaque parts of
// a configuration (model hyper-parameters, head definitions, transforms) are
// handed to the training framework as native maps and slices.
package document

import (
	"fmt"
	"math"
	"math/big"
	"sort"

	"github.com/zclconf/go-cty/cty"
)

// ToNative converts v to its most natural Go counterpart: string, int64 for
// whole numbers that fit, float64 for other numbers, bool, []any and
// map[string]any. Null and unknown values become nil.
func ToNative(v cty.Value) any {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Bool:
		return v.True()
	case ty == cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i
			}
		}
		f, _ := bf.Float64()
		return f
	case ty.IsListType(), ty.IsTupleType(), ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			out = append(out, ToNative(ev))
		}
		return out
	case ty.IsMapType(), ty.IsObjectType():
		out := make(map[string]any)
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			out[k.AsString()] = ToNative(ev)
		}
		return out
	default:
		return nil
	}
}

// FromNative builds a tree from the Go values produced by ToNative. Map keys
// are emitted in sorted order so the result is deterministic.
func FromNative(v any, pos Pos) (*Node, error) {
	switch x := v.(type) {
	case nil:
		return NewNull(pos), nil
	case string:
		return NewScalar(pos, cty.StringVal(x)), nil
	case bool:
		return NewScalar(pos, cty.BoolVal(x)), nil
	case int:
		return NewScalar(pos, cty.NumberIntVal(int64(x))), nil
	case int64:
		return NewScalar(pos, cty.NumberIntVal(x)), nil
	case float64:
		if math.IsNaN(x) {
			return nil, fmt.Errorf("NaN is not a valid configuration value")
		}
		return NewScalar(pos, cty.NumberFloatVal(x)), nil
	case []string:
		seq := NewSequence(pos)
		seq.Items = make([]*Node, len(x))
		for i, s := range x {
			seq.Items[i] = NewScalar(pos, cty.StringVal(s))
		}
		return seq, nil
	case []float64:
		seq := NewSequence(pos)
		seq.Items = make([]*Node, len(x))
		for i, f := range x {
			n, err := FromNative(f, pos)
			if err != nil {
				return nil, err
			}
			seq.Items[i] = n
		}
		return seq, nil
	case []any:
		seq := NewSequence(pos)
		seq.Items = make([]*Node, len(x))
		for i, item := range x {
			n, err := FromNative(item, pos)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			seq.Items[i] = n
		}
		return seq, nil
	case map[string]string:
		m := NewMapping(pos)
		for _, k := range sortedKeys(x) {
			m.Entries = append(m.Entries, &Entry{Key: k, KeyPos: pos, Value: NewScalar(pos, cty.StringVal(x[k]))})
		}
		return m, nil
	case map[string]any:
		m := NewMapping(pos)
		for _, k := range sortedKeys(x) {
			n, err := FromNative(x[k], pos)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", k, err)
			}
			m.Entries = append(m.Entries, &Entry{Key: k, KeyPos: pos, Value: n})
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
