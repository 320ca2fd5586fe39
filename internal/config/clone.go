// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"maps"
	"slices"
)

// cloneNative deep-copies a value built from maps, slices and scalars.
func cloneNative(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return cloneMap(x)
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = cloneNative(item)
		}
		return out
	default:
		return v
	}
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneNative(v)
	}
	return out
}

func (s Split) clone() Split {
	s.KeyMapping = maps.Clone(s.KeyMapping)
	s.Transforms = cloneMap(s.Transforms)
	s.Extras = cloneMap(s.Extras)
	return s
}

func (d Dataset) clone() Dataset {
	d.Train = d.Train.clone()
	if v, ok := d.Val.Get(); ok {
		d.Val = Some(v.clone())
	}
	if v, ok := d.Test.Get(); ok {
		d.Test = Some(v.clone())
	}
	d.Extras = cloneMap(d.Extras)
	return d
}

func (l Logger) clone() Logger {
	l.Extras = cloneMap(l.Extras)
	return l
}

func (t Task) clone() Task {
	t.Labels = slices.Clone(t.Labels)
	return t
}

func (m Model) clone() Model {
	if b, ok := m.Backbone.Get(); ok {
		b.Params = cloneMap(b.Params)
		m.Backbone = Some(b)
	}
	m.Heads = cloneMap(m.Heads)
	m.Params = cloneMap(m.Params)
	return m
}

func (o Optim) clone() Optim {
	o.OptimizerParams = cloneMap(o.OptimizerParams)
	o.SchedulerParams = cloneMap(o.SchedulerParams)
	o.LRMilestones = slices.Clone(o.LRMilestones)
	return o
}
