// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"encoding/json"
	"fmt"

	"github.com/vk/trainconf/internal/document"
	"github.com/zclconf/go-cty/cty"
)

// Format is a serialization format for a Handoff.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatYAML, FormatJSON, FormatCBOR}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported output format %q (must be one of %v)", s, Formats)
}

// Handoff is what the training framework receives: the run arguments and
// the resolved configuration.
type Handoff struct {
	Run    Run
	Config *Config
}

// Document returns the handoff as a tree with the keys fingerprint, run
// and config.
func (h *Handoff) Document() *document.Node {
	root := document.NewMapping(resolvedPos)
	root.Set("fingerprint", resolvedPos, document.NewScalar(resolvedPos, cty.StringVal(h.Config.Fingerprint())))

	run := document.NewMapping(resolvedPos)
	run.Set("mode", resolvedPos, str(h.Run.Mode))
	run.Set("seed", resolvedPos, document.NewScalar(resolvedPos, cty.NumberIntVal(int64(h.Run.Seed))))
	run.Set("run_dir", resolvedPos, str(h.Run.RunDir))
	run.Set("identifier", resolvedPos, str(h.Run.Identifier))
	run.Set("timestamp_id", resolvedPos, str(h.Run.TimestampID))
	if h.Run.Checkpoint != "" {
		run.Set("checkpoint", resolvedPos, str(h.Run.Checkpoint))
	}
	run.Set("cpu", resolvedPos, document.NewScalar(resolvedPos, cty.BoolVal(h.Run.CPU)))
	root.Set("run", resolvedPos, run)

	root.Set("config", resolvedPos, h.Config.Document())
	return root
}

func str(s string) *document.Node {
	return document.NewScalar(resolvedPos, cty.StringVal(s))
}

// Encode serializes the handoff. YAML keeps the document's key order, JSON
// sorts keys, and CBOR uses deterministic encoding.
func (h *Handoff) Encode(f Format) ([]byte, error) {
	doc := h.Document()
	switch f {
	case FormatYAML:
		return document.Encode(doc)
	case FormatJSON:
		out, err := json.MarshalIndent(document.ToNative(doc.CtyValue()), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding handoff as json: %w", err)
		}
		return append(out, '\n'), nil
	case FormatCBOR:
		out, err := encodeCBOR(doc)
		if err != nil {
			return nil, fmt.Errorf("encoding handoff as cbor: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", f)
	}
}
