// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/trainconf/internal/binder"
	"github.com/vk/trainconf/internal/document"
)

// Report renders configuration diagnostics for err to w, with source
// snippets taken from files, and returns an ExitError with code 1. Errors
// that carry no diagnostics are returned as an ExitError unchanged.
func Report(w io.Writer, err error, files map[string]*hcl.File) error {
	diags := Diagnostics(err)
	if len(diags) == 0 {
		return &ExitError{Code: 1, Message: err.Error()}
	}

	dw := hcl.NewDiagnosticTextWriter(w, files, 0, false)
	if werr := dw.WriteDiagnostics(diags); werr != nil {
		return fmt.Errorf("writing diagnostics: %w", werr)
	}

	summary, _, _ := strings.Cut(err.Error(), "\n")
	return &ExitError{Code: 1, Message: summary}
}

// Diagnostics extracts the diagnostics carried by err, if any.
func Diagnostics(err error) hcl.Diagnostics {
	var verrs *binder.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Diagnostics()
	}
	var perr *document.ParseError
	if errors.As(err, &perr) {
		return hcl.Diagnostics{perr.Diagnostic()}
	}
	return nil
}
