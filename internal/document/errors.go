// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"github.com/hashicorp/hcl/v2"
)

// ParseError reports a malformed document. Parsing stops at the first one:
// there is no partial tree to validate.
type ParseError struct {
	Pos
	Message string
}

func (e *ParseError) Error() string {
	return e.Pos.String() + ": " + e.Message
}

// Diagnostic renders the error as an hcl.Diagnostic so it can be printed
// with a source snippet.
func (e *ParseError) Diagnostic() *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Malformed configuration document",
		Detail:   e.Message,
		Subject:  e.Pos.Range(),
	}
}

func parseErrorf(pos Pos, message string) *ParseError {
	return &ParseError{Pos: pos, Message: message}
}
