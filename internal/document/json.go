// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/tidwall/jsonc"
	"github.com/zclconf/go-cty/cty"
)

// parseJSON accepts JSON extended with comments and trailing commas.
// jsonc.ToJSON keeps every byte offset intact, so positions computed on the
// stripped text are valid for the original file.
func parseJSON(filename string, src []byte) (*Document, error) {
	stripped := jsonc.ToJSON(src)
	p := &jsonParser{
		filename: filename,
		src:      stripped,
		lines:    newLineIndex(stripped),
		dec:      json.NewDecoder(bytes.NewReader(stripped)),
	}
	p.dec.UseNumber()

	if len(bytes.TrimSpace(stripped)) == 0 {
		return &Document{Filename: filename, Root: NewMapping(p.lines.posAt(filename, 0))}, nil
	}

	root, err := p.value()
	if err != nil {
		return nil, err
	}
	if _, err := p.dec.Token(); err != io.EOF {
		return nil, parseErrorf(p.lines.posAt(filename, int(p.dec.InputOffset())), "unexpected data after the top-level value")
	}
	if root.Kind != KindMapping {
		return nil, parseErrorf(root.Pos, fmt.Sprintf("document root must be a mapping of sections, got a %s", root.Kind))
	}
	return &Document{Filename: filename, Root: root}, nil
}

type jsonParser struct {
	filename string
	src      []byte
	lines    *lineIndex
	dec      *json.Decoder
}

// next returns the next token and the byte offset where it starts.
func (p *jsonParser) next() (json.Token, Pos, error) {
	start := p.skip(int(p.dec.InputOffset()))
	tok, err := p.dec.Token()
	pos := p.lines.posAt(p.filename, start)
	if err != nil {
		return nil, pos, p.wrap(err, pos)
	}
	return tok, pos, nil
}

// skip advances past whitespace and the separators the decoder consumes
// implicitly.
func (p *jsonParser) skip(off int) int {
	for off < len(p.src) {
		switch p.src[off] {
		case ' ', '\t', '\r', '\n', ',', ':':
			off++
		default:
			return off
		}
	}
	return off
}

func (p *jsonParser) wrap(err error, pos Pos) error {
	var syntax *json.SyntaxError
	if errors.As(err, &syntax) {
		return parseErrorf(p.lines.posAt(p.filename, int(syntax.Offset)), syntax.Error())
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return parseErrorf(p.lines.posAt(p.filename, len(p.src)), "unexpected end of document")
	}
	return parseErrorf(pos, err.Error())
}

func (p *jsonParser) value() (*Node, error) {
	tok, pos, err := p.next()
	if err != nil {
		return nil, err
	}
	return p.fromToken(tok, pos)
}

func (p *jsonParser) fromToken(tok json.Token, pos Pos) (*Node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return p.object(pos)
		case '[':
			return p.array(pos)
		}
		return nil, parseErrorf(pos, fmt.Sprintf("unexpected %q", rune(t)))
	case string:
		return NewScalar(pos, cty.StringVal(t)), nil
	case bool:
		return NewScalar(pos, cty.BoolVal(t)), nil
	case nil:
		return NewNull(pos), nil
	case json.Number:
		var (
			v   cty.Value
			err error
		)
		if strings.ContainsAny(t.String(), ".eE") {
			v, err = parseFloat(t.String())
		} else {
			v, err = parseInt(t.String())
		}
		if err != nil {
			return nil, parseErrorf(pos, err.Error())
		}
		return NewScalar(pos, v), nil
	default:
		return nil, parseErrorf(pos, fmt.Sprintf("unexpected token %v", tok))
	}
}

func (p *jsonParser) object(pos Pos) (*Node, error) {
	m := NewMapping(pos)
	seen := make(map[string]Pos)
	for {
		tok, keyPos, err := p.next()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == '}' {
			return m, nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil, parseErrorf(keyPos, "object keys must be strings")
		}
		if first, dup := seen[key]; dup {
			return nil, parseErrorf(keyPos, fmt.Sprintf("duplicate key %q in mapping (first defined at line %d)", key, first.Line))
		}
		seen[key] = keyPos

		val, err := p.value()
		if err != nil {
			return nil, err
		}
		m.Entries = append(m.Entries, &Entry{Key: key, KeyPos: keyPos, Value: val})
	}
}

func (p *jsonParser) array(pos Pos) (*Node, error) {
	seq := NewSequence(pos)
	seq.Items = []*Node{}
	for {
		tok, itemPos, err := p.next()
		if err != nil {
			return nil, err
		}
		if d, ok := tok.(json.Delim); ok && d == ']' {
			return seq, nil
		}
		item, err := p.fromToken(tok, itemPos)
		if err != nil {
			return nil, err
		}
		seq.Items = append(seq.Items, item)
	}
}
