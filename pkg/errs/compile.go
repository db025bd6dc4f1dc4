// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package errs

import (
	"fmt"
	"strings"

	"carvel.dev/liquid/pkg/filepos"
	"carvel.dev/liquid/pkg/spell"
)

type CompileErrorKind int

const (
	Syntax CompileErrorKind = iota
	UnknownTag
	UnknownFilter
	ArgumentMismatch
)

func (k CompileErrorKind) String() string {
	switch k {
	case Syntax:
		return "Syntax"
	case UnknownTag:
		return "UnknownTag"
	case UnknownFilter:
		return "UnknownFilter"
	case ArgumentMismatch:
		return "ArgumentMismatch"
	default:
		panic(fmt.Sprintf("unknown compile error kind %d", int(k)))
	}
}

// CompileError aborts compilation; no usable template is produced.
type CompileError struct {
	Kind CompileErrorKind
	// Name is the tag or filter name for every kind except Syntax.
	Name string
	Msg  string
	Hint string
	Pos  filepos.Position
}

var _ error = &CompileError{}

func NewSyntaxError(pos filepos.Position, format string, args ...interface{}) *CompileError {
	return &CompileError{Kind: Syntax, Msg: fmt.Sprintf(format, args...), Pos: pos}
}

func NewUnknownTagError(name string, pos filepos.Position, known []string) *CompileError {
	return &CompileError{
		Kind: UnknownTag,
		Name: name,
		Msg:  fmt.Sprintf("Unknown tag '%s'", name),
		Hint: didYouMean(name, known),
		Pos:  pos,
	}
}

func NewUnknownFilterError(name string, pos filepos.Position, known []string) *CompileError {
	return &CompileError{
		Kind: UnknownFilter,
		Name: name,
		Msg:  fmt.Sprintf("Unknown filter '%s'", name),
		Hint: didYouMean(name, known),
		Pos:  pos,
	}
}

func NewArgumentMismatchError(name string, pos filepos.Position, format string, args ...interface{}) *CompileError {
	return &CompileError{
		Kind: ArgumentMismatch,
		Name: name,
		Msg:  fmt.Sprintf("Filter '%s': %s", name, fmt.Sprintf(format, args...)),
		Pos:  pos,
	}
}

// Offset is the byte offset of the failure within the template source.
func (e *CompileError) Offset() int { return e.Pos.Offset }

func (e *CompileError) Error() string {
	result := []string{e.Msg + e.hintMsg()}

	if e.Pos.IsKnown() {
		line := "    " + e.Pos.AsCompactString()
		if len(e.Pos.GetLine()) > 0 {
			line += " | " + e.Pos.GetLine()
		}
		result = append(result, line)
	}

	return strings.Join(result, "\n")
}

// WithSource attaches the offending source line for display.
func (e *CompileError) WithSource(src string) *CompileError {
	e.Pos = e.Pos.WithSource(src)
	return e
}

func (e *CompileError) hintMsg() string {
	if len(e.Hint) == 0 {
		return ""
	}
	return fmt.Sprintf(" (hint: %s)", e.Hint)
}

func didYouMean(name string, known []string) string {
	if suggestion := spell.Suggest(name, known); len(suggestion) > 0 {
		return fmt.Sprintf("did you mean '%s'?", suggestion)
	}
	return ""
}
