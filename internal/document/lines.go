// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package document

import (
	"unicode/utf8"
)

// lineIndex maps between byte offsets and 1-based line/column positions.
type lineIndex struct {
	src    []byte
	starts []int
}

func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{src: src, starts: starts}
}

// offset returns the byte offset of a 1-based line and rune column.
func (l *lineIndex) offset(line, column int) int {
	if line < 1 || line > len(l.starts) {
		return 0
	}
	off := l.starts[line-1]
	for c := 1; c < column && off < len(l.src) && l.src[off] != '\n'; c++ {
		_, size := utf8.DecodeRune(l.src[off:])
		off += size
	}
	return off
}

// position returns the line and rune column of a byte offset.
func (l *lineIndex) position(offset int) (int, int) {
	line := 1
	for i := 1; i < len(l.starts) && l.starts[i] <= offset; i++ {
		line = i + 1
	}
	start := l.starts[line-1]
	if offset > len(l.src) {
		offset = len(l.src)
	}
	return line, utf8.RuneCount(l.src[start:offset]) + 1
}

func (l *lineIndex) pos(filename string, line, column int) Pos {
	return Pos{Filename: filename, Line: line, Column: column, Byte: l.offset(line, column)}
}

func (l *lineIndex) posAt(filename string, offset int) Pos {
	line, column := l.position(offset)
	return Pos{Filename: filename, Line: line, Column: column, Byte: offset}
}
