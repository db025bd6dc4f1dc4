// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package filepos

import (
	"fmt"
	"strings"
)

// Position is a location within a named source. Offset is 0 based,
// Line and Col are 1 based.
type Position struct {
	Offset int
	Line   int
	Col    int

	file  string
	line  string
	known bool
}

// NewPosition returns the start of a source.
func NewPosition(file string) Position {
	return Position{Line: 1, Col: 1, file: file, known: true}
}

// NewPositionAt returns a Position for an explicit location.
func NewPositionAt(file string, offset, line, col int) Position {
	if line <= 0 || col <= 0 {
		panic("Lines and columns are 1 based")
	}
	if offset < 0 {
		panic("Unexpected negative offset")
	}
	return Position{Offset: offset, Line: line, Col: col, file: file, known: true}
}

// NewUnknownPosition is equivalent of zero value Position
func NewUnknownPosition() Position {
	return Position{}
}

// Advance returns the position reached after consuming text from p.
func (p Position) Advance(text string) Position {
	if !p.known {
		return p
	}
	next := p
	next.Offset += len(text)
	for _, ch := range text {
		if ch == '\n' {
			next.Line++
			next.Col = 1
		} else {
			next.Col++
		}
	}
	next.line = ""
	return next
}

// WithSource caches the source line that p points into.
func (p Position) WithSource(src string) Position {
	if !p.known || p.Offset > len(src) {
		return p
	}
	start := strings.LastIndexByte(src[:p.Offset], '\n') + 1
	end := strings.IndexByte(src[p.Offset:], '\n')
	if end < 0 {
		end = len(src)
	} else {
		end += p.Offset
	}
	p.line = strings.TrimRight(src[start:end], "\r")
	return p
}

func (p Position) IsKnown() bool { return p.known }

func (p Position) GetFile() string { return p.file }

func (p Position) GetLine() string { return p.line }

func (p Position) AsString() string {
	return "line " + p.AsCompactString()
}

func (p Position) AsCompactString() string {
	filePrefix := p.file
	if len(filePrefix) > 0 {
		filePrefix += ":"
	}
	if p.IsKnown() {
		return fmt.Sprintf("%s%d:%d", filePrefix, p.Line, p.Col)
	}
	return fmt.Sprintf("%s?", filePrefix)
}

func (p Position) AsIntString() string {
	if p.IsKnown() {
		return fmt.Sprintf("%d", p.Line)
	}
	return "?"
}
