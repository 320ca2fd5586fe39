// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package binder

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/trainconf/internal/document"
)

// UnknownKeyError reports a key the registry does not recognize. It is a
// warning: binding succeeds regardless.
type UnknownKeyError struct {
	Path string
	Pos  document.Pos
}

func (e *UnknownKeyError) Error() string {
	return withPos(e.Pos, "unknown key "+e.Path)
}

func (e *UnknownKeyError) Section() string { return section(e.Path) }

// MissingRequiredError reports an absent or null required key.
type MissingRequiredError struct {
	Path     string
	Expected string
	Pos      document.Pos
}

func (e *MissingRequiredError) Error() string {
	return withPos(e.Pos, fmt.Sprintf("missing required key %s (%s)", e.Path, e.Expected))
}

func (e *MissingRequiredError) Section() string { return section(e.Path) }

func (e *MissingRequiredError) Diagnostic() *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Missing required key",
		Detail:   fmt.Sprintf("The key %s must be set to a %s value.", e.Path, e.Expected),
		Subject:  e.Pos.Range(),
	}
}

// TypeMismatchError reports a value that cannot be coerced to the type of
// its entry.
type TypeMismatchError struct {
	Path     string
	Expected string
	Got      string
	Pos      document.Pos
}

func (e *TypeMismatchError) Error() string {
	return withPos(e.Pos, fmt.Sprintf("%s: expected %s, got %s", e.Path, e.Expected, e.Got))
}

func (e *TypeMismatchError) Section() string { return section(e.Path) }

func (e *TypeMismatchError) Diagnostic() *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Type mismatch",
		Detail:   fmt.Sprintf("The key %s expects %s, but the value is %s.", e.Path, e.Expected, e.Got),
		Subject:  e.Pos.Range(),
	}
}

// ConditionalRequirementError reports a key that is absent while the
// condition that makes it required holds.
type ConditionalRequirementError struct {
	Path      string
	Condition string
	Pos       document.Pos
}

func (e *ConditionalRequirementError) Error() string {
	return withPos(e.Pos, fmt.Sprintf("missing key %s, required when %s", e.Path, e.Condition))
}

func (e *ConditionalRequirementError) Section() string { return section(e.Path) }

func (e *ConditionalRequirementError) Diagnostic() *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Missing conditionally required key",
		Detail:   fmt.Sprintf("The key %s is required when %s.", e.Path, e.Condition),
		Subject:  e.Pos.Range(),
	}
}

// InvalidValueError reports a string outside an entry's allowed values.
type InvalidValueError struct {
	Path    string
	Value   string
	Allowed []string
	Pos     document.Pos
}

func (e *InvalidValueError) Error() string {
	return withPos(e.Pos, fmt.Sprintf("%s: invalid value %q (must be one of %s)", e.Path, e.Value, strings.Join(e.Allowed, ", ")))
}

func (e *InvalidValueError) Section() string { return section(e.Path) }

func (e *InvalidValueError) Diagnostic() *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid value",
		Detail:   fmt.Sprintf("The key %s must be one of %s, not %q.", e.Path, strings.Join(e.Allowed, ", "), e.Value),
		Subject:  e.Pos.Range(),
	}
}

// ValidationErrors is the complete list of fatal problems found while
// binding a document.
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	noun := "errors"
	if len(msgs) == 1 {
		noun = "error"
	}
	return fmt.Sprintf("configuration is invalid (%d %s):\n- %s", len(msgs), noun, strings.Join(msgs, "\n- "))
}

func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// Diagnostics converts the errors for rendering with source snippets.
func (e *ValidationErrors) Diagnostics() hcl.Diagnostics {
	return diagnostics(e.Errors)
}

type diagnoser interface {
	Diagnostic() *hcl.Diagnostic
}

func diagnostics(errs []error) hcl.Diagnostics {
	var diags hcl.Diagnostics
	for _, err := range errs {
		if d, ok := err.(diagnoser); ok {
			diags = append(diags, d.Diagnostic())
			continue
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid configuration",
			Detail:   err.Error(),
		})
	}
	return diags
}

func withPos(pos document.Pos, msg string) string {
	if pos.Filename == "" && pos.Line == 0 {
		return msg
	}
	return pos.String() + ": " + msg
}

func section(path string) string {
	head, _, _ := strings.Cut(path, ".")
	return head
}
