// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// View exposes the values a condition is evaluated against. Lookup reports
// the coerced value at path and whether the key was explicitly set.
// Sections that are present report a non-null value.
type View interface {
	Lookup(path string) (cty.Value, bool)
}

// Condition is a predicate over other keys of the same document.
type Condition struct {
	path  string
	desc  string
	holds func(View) bool
}

// Equals holds when the string at path equals want.
func Equals(path, want string) *Condition {
	return &Condition{
		path: path,
		desc: fmt.Sprintf("%s == %q", path, want),
		holds: func(v View) bool {
			val, ok := v.Lookup(path)
			if !ok || val.IsNull() || !val.IsKnown() || val.Type() != cty.String {
				return false
			}
			return val.AsString() == want
		},
	}
}

// Present holds when path is set to a non-null value.
func Present(path string) *Condition {
	return &Condition{
		path:  path,
		desc:  path + " is set",
		holds: func(v View) bool { return isSet(v, path) },
	}
}

// Absent holds when path is missing or null.
func Absent(path string) *Condition {
	return &Condition{
		path:  path,
		desc:  path + " is not set",
		holds: func(v View) bool { return !isSet(v, path) },
	}
}

func isSet(v View, path string) bool {
	val, ok := v.Lookup(path)
	return ok && !val.IsNull()
}

// Holds evaluates the condition.
func (c *Condition) Holds(v View) bool {
	return c.holds(v)
}

// Path returns the key the condition inspects.
func (c *Condition) Path() string {
	return c.path
}

func (c *Condition) String() string {
	return c.desc
}
