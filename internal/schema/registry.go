// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package schema

import (
	"fmt"

	"github.com/zclconf/go-cty/cty/convert"
)

// Registry is an ordered set of entries. It is never modified after New
// returns.
type Registry struct {
	entries  []Entry
	byPath   map[string]int
	children map[string][]int
}

// New builds a registry from entries, in order. A section must be
// registered before its children.
//
// New panics on a malformed table: a duplicate path, a child whose parent
// is not a registered section, a reference to an unknown path, a default
// that does not conform to the entry's type, or a non-required entry that
// has no way to resolve when absent.
func New(entries ...Entry) *Registry {
	r := &Registry{
		byPath:   make(map[string]int, len(entries)),
		children: make(map[string][]int),
	}
	for _, e := range entries {
		r.add(e)
	}
	for _, e := range r.entries {
		r.checkRefs(e)
	}
	return r
}

func (r *Registry) add(e Entry) {
	if e.Path == "" {
		panic("schema entry with empty path")
	}
	if _, exists := r.byPath[e.Path]; exists {
		panic(fmt.Sprintf("schema entry '%s' already registered", e.Path))
	}
	if parent := e.Parent(); parent != "" {
		i, ok := r.byPath[parent]
		if !ok || r.entries[i].Type != Section {
			panic(fmt.Sprintf("schema entry '%s': parent '%s' is not a registered section", e.Path, parent))
		}
	}
	if e.Type < String || e.Type > Section {
		panic(fmt.Sprintf("schema entry '%s': invalid type", e.Path))
	}
	if len(e.OneOf) > 0 && e.Type != String {
		panic(fmt.Sprintf("schema entry '%s': allowed values require a string type", e.Path))
	}
	if e.HasDefault() && !e.Default.IsNull() {
		if _, err := convert.Convert(e.Default, e.Type.CtyType()); err != nil {
			panic(fmt.Sprintf("schema entry '%s': default does not conform to %s: %v", e.Path, e.Type, err))
		}
		if e.Type == String && !e.Allows(e.Default.AsString()) {
			panic(fmt.Sprintf("schema entry '%s': default %q is not an allowed value", e.Path, e.Default.AsString()))
		}
	}
	if e.Type != Section && !e.Required && e.RequiredIf == nil && !e.HasDefault() && e.DefaultFrom == "" && !e.Nullable {
		panic(fmt.Sprintf("schema entry '%s': optional entry needs a default or must be nullable", e.Path))
	}
	if e.Type == Section && e.HasDefault() {
		panic(fmt.Sprintf("schema entry '%s': sections cannot carry a default", e.Path))
	}

	r.byPath[e.Path] = len(r.entries)
	r.children[e.Parent()] = append(r.children[e.Parent()], len(r.entries))
	r.entries = append(r.entries, e)
}

func (r *Registry) checkRefs(e Entry) {
	if e.DefaultFrom != "" {
		src, ok := r.Lookup(e.DefaultFrom)
		if !ok {
			panic(fmt.Sprintf("schema entry '%s': default source '%s' is not registered", e.Path, e.DefaultFrom))
		}
		if !src.Type.CtyType().Equals(e.Type.CtyType()) {
			panic(fmt.Sprintf("schema entry '%s': default source '%s' has type %s, want %s", e.Path, e.DefaultFrom, src.Type, e.Type))
		}
	}
	if e.RequiredIf != nil {
		if _, ok := r.Lookup(e.RequiredIf.Path()); !ok {
			panic(fmt.Sprintf("schema entry '%s': condition refers to unregistered '%s'", e.Path, e.RequiredIf.Path()))
		}
	}
	if e.Shorthand != "" {
		if e.Type != Section {
			panic(fmt.Sprintf("schema entry '%s': shorthand requires a section", e.Path))
		}
		if _, ok := r.Lookup(e.Path + "." + e.Shorthand); !ok {
			panic(fmt.Sprintf("schema entry '%s': shorthand key '%s' is not registered", e.Path, e.Shorthand))
		}
	}
}

// Lookup returns the entry registered at path.
func (r *Registry) Lookup(path string) (Entry, bool) {
	i, ok := r.byPath[path]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Entries returns every entry in registration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Children returns the entries directly under path, in registration order.
// An empty path returns the top-level entries.
func (r *Registry) Children(path string) []Entry {
	idx := r.children[path]
	out := make([]Entry, len(idx))
	for i, j := range idx {
		out[i] = r.entries[j]
	}
	return out
}

// Sections returns the top-level entries.
func (r *Registry) Sections() []Entry {
	return r.Children("")
}

// Len returns the number of registered entries.
func (r *Registry) Len() int {
	return len(r.entries)
}
