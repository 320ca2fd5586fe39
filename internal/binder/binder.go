// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package binder

import (
	"fmt"
	"strings"

	"github.com/vk/trainconf/internal/config"
	"github.com/vk/trainconf/internal/document"
	"github.com/vk/trainconf/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Bind validates doc against reg and builds the resolved configuration.
//
// Unknown keys are returned as warnings in document order, whether or not
// binding succeeds. When any fatal problem is found the error is a
// *ValidationErrors listing all of them and no Config is returned.
func Bind(doc *document.Document, reg *schema.Registry) (*config.Config, []*UnknownKeyError, error) {
	b := &binder{
		reg:       reg,
		filePos:   document.Pos{Filename: doc.Filename},
		positions: make(map[string]document.Pos),
		explicit:  make(map[string]cty.Value),
		sections:  make(map[string]bool),
		invalid:   make(map[string]bool),
		extras:    make(map[string]map[string]any),
	}

	b.walk(doc.Root, "", true)
	fields, active := b.resolve()

	if len(b.errs) > 0 {
		return nil, b.warnings, &ValidationErrors{Errors: b.errs}
	}

	cfg, err := config.New(reg, config.Values{Fields: fields, Extras: b.extras, Sections: active})
	if err != nil {
		return nil, b.warnings, fmt.Errorf("building config: %w", err)
	}
	return cfg, b.warnings, nil
}

type binder struct {
	reg     *schema.Registry
	filePos document.Pos

	// positions holds the key position of every recognized path seen in
	// the document, including keys set to null.
	positions map[string]document.Pos
	// explicit holds the coerced, non-null value of every field set in the
	// document.
	explicit map[string]cty.Value
	// sections records the sections present in the document.
	sections map[string]bool
	// invalid records paths whose value failed to coerce. Their children
	// are not resolved.
	invalid map[string]bool
	extras  map[string]map[string]any

	warnings []*UnknownKeyError
	errs     []error
}

// walk matches the entries of mapping m, found at path, against the
// registry.
func (b *binder) walk(m *document.Node, path string, closed bool) {
	for _, ent := range m.Entries {
		p := join(path, ent.Key)
		e, ok := b.reg.Lookup(p)
		// A dotted key is a single literal key, never a nested path.
		if !ok || strings.Contains(ent.Key, ".") {
			if closed {
				b.warnings = append(b.warnings, &UnknownKeyError{Path: p, Pos: ent.KeyPos})
				continue
			}
			if b.extras[path] == nil {
				b.extras[path] = make(map[string]any)
			}
			b.extras[path][ent.Key] = document.ToNative(ent.Value.CtyValue())
			continue
		}

		b.positions[p] = ent.KeyPos
		if ent.Value.IsNull() {
			continue
		}

		if e.Type == schema.Section {
			b.section(e, ent)
			continue
		}

		v, err := coerce(e, ent.Value)
		if err != nil {
			b.errs = append(b.errs, err)
			b.invalid[p] = true
			continue
		}
		if !v.IsNull() {
			b.explicit[p] = v
		}
	}
}

func (b *binder) section(e schema.Entry, ent *document.Entry) {
	n := ent.Value
	if n.Kind == document.KindScalar && e.Shorthand != "" {
		n = document.NewMapping(n.Pos)
		n.Set(e.Shorthand, ent.KeyPos, ent.Value)
	}
	if n.Kind != document.KindMapping {
		b.errs = append(b.errs, mismatch(e.Path, "mapping", n))
		b.invalid[e.Path] = true
		return
	}
	b.sections[e.Path] = true
	b.walk(n, e.Path, !e.Open)
}

// resolve walks the registry in order and returns the resolved value of
// every field in an active section, plus the set of active sections.
func (b *binder) resolve() (map[string]cty.Value, map[string]bool) {
	fields := make(map[string]cty.Value)
	active := map[string]bool{"": true}
	var derived []schema.Entry

	for _, e := range b.reg.Entries() {
		if !active[e.Parent()] || b.invalid[e.Path] {
			continue
		}

		if e.Type == schema.Section {
			switch {
			case b.sections[e.Path]:
				active[e.Path] = true
			case e.Required:
				b.missing(e)
			case e.RequiredIf != nil && e.RequiredIf.Holds(b):
				b.conditional(e)
			case !e.Optional && e.RequiredIf == nil:
				active[e.Path] = true
			}
			continue
		}

		if v, ok := b.explicit[e.Path]; ok {
			fields[e.Path] = v
			continue
		}
		switch {
		case e.Required:
			b.missing(e)
		case e.RequiredIf != nil && e.RequiredIf.Holds(b):
			b.conditional(e)
		case e.HasDefault():
			fields[e.Path] = defaultValue(e)
		case e.DefaultFrom != "":
			derived = append(derived, e)
		default:
			fields[e.Path] = cty.NullVal(e.Type.CtyType())
		}
	}

	for _, e := range derived {
		if v, ok := fields[e.DefaultFrom]; ok {
			fields[e.Path] = v
		} else {
			fields[e.Path] = cty.NullVal(e.Type.CtyType())
		}
	}

	delete(active, "")
	return fields, active
}

// Lookup implements schema.View over the values set in the document.
func (b *binder) Lookup(path string) (cty.Value, bool) {
	if v, ok := b.explicit[path]; ok {
		return v, true
	}
	if b.sections[path] {
		return cty.EmptyObjectVal, true
	}
	return cty.NilVal, false
}

func (b *binder) missing(e schema.Entry) {
	b.errs = append(b.errs, &MissingRequiredError{Path: e.Path, Expected: e.Type.String(), Pos: b.posFor(e)})
}

func (b *binder) conditional(e schema.Entry) {
	b.errs = append(b.errs, &ConditionalRequirementError{Path: e.Path, Condition: e.RequiredIf.String(), Pos: b.posFor(e)})
}

// posFor locates an absent entry: the key itself when it was set to null,
// otherwise the nearest enclosing section present in the document.
func (b *binder) posFor(e schema.Entry) document.Pos {
	for p := e.Path; p != ""; p = parentOf(p) {
		if pos, ok := b.positions[p]; ok {
			return pos
		}
	}
	return b.filePos
}

func defaultValue(e schema.Entry) cty.Value {
	if e.Default.IsNull() {
		return cty.NullVal(e.Type.CtyType())
	}
	v, err := convert.Convert(e.Default, e.Type.CtyType())
	if err != nil {
		// Registry construction has already checked every default.
		panic(fmt.Sprintf("default for '%s': %v", e.Path, err))
	}
	return v
}

func join(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func parentOf(path string) string {
	return schema.Entry{Path: path}.Parent()
}
