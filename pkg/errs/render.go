// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package errs

import (
	"fmt"
	"strings"

	"carvel.dev/liquid/pkg/filepos"
)

type RenderErrorKind int

const (
	UndefinedVariable RenderErrorKind = iota
	FilterError
	TypeError
	DepthExceeded
	BudgetExceeded
	Interrupted
	Internal
)

func (k RenderErrorKind) String() string {
	switch k {
	case UndefinedVariable:
		return "UndefinedVariable"
	case FilterError:
		return "FilterError"
	case TypeError:
		return "TypeError"
	case DepthExceeded:
		return "DepthExceeded"
	case BudgetExceeded:
		return "BudgetExceeded"
	case Interrupted:
		return "Interrupted"
	case Internal:
		return "Internal"
	default:
		panic(fmt.Sprintf("unknown render error kind %d", int(k)))
	}
}

// RenderError aborts the current render; partial output is discarded.
type RenderError struct {
	Kind RenderErrorKind

	// Path is the unresolvable variable path (UndefinedVariable).
	Path string
	// Name is the filter name (FilterError) or the failing tag (Internal).
	Name string
	// Operation and ValueKind describe a TypeError.
	Operation string
	ValueKind string
	// Limit is the exceeded depth or budget.
	Limit int64

	Cause error
	Pos   filepos.Position
	// Trace lists the enclosing constructs, innermost first.
	Trace []string
}

var _ error = &RenderError{}

func NewUndefinedVariableError(path string, pos filepos.Position) *RenderError {
	return &RenderError{Kind: UndefinedVariable, Path: path, Pos: pos}
}

func NewFilterError(name string, cause error, pos filepos.Position) *RenderError {
	return &RenderError{Kind: FilterError, Name: name, Cause: cause, Pos: pos}
}

func NewTypeError(operation, valueKind string) *RenderError {
	return &RenderError{Kind: TypeError, Operation: operation, ValueKind: valueKind}
}

func NewDepthExceededError(limit int64) *RenderError {
	return &RenderError{Kind: DepthExceeded, Limit: limit}
}

func NewBudgetExceededError(limit int64) *RenderError {
	return &RenderError{Kind: BudgetExceeded, Limit: limit}
}

func NewInterruptedError(cause error) *RenderError {
	return &RenderError{Kind: Interrupted, Cause: cause}
}

// NewTagError wraps a failure raised by a tag implementation.
func NewTagError(name string, cause error) *RenderError {
	return &RenderError{Kind: Internal, Name: name, Cause: cause}
}

func NewInternalError(format string, args ...interface{}) *RenderError {
	return &RenderError{Kind: Internal, Cause: fmt.Errorf(format, args...)}
}

func (e *RenderError) Unwrap() error { return e.Cause }

func (e *RenderError) Error() string {
	var msg string

	switch e.Kind {
	case UndefinedVariable:
		msg = fmt.Sprintf("Undefined variable '%s'", e.Path)
	case FilterError:
		msg = fmt.Sprintf("Filter '%s': %s", e.Name, e.Cause)
	case TypeError:
		msg = fmt.Sprintf("Cannot apply '%s' to value of type %s", e.Operation, e.ValueKind)
	case DepthExceeded:
		msg = fmt.Sprintf("Maximum render depth (%d) exceeded", e.Limit)
	case BudgetExceeded:
		msg = fmt.Sprintf("Operation budget (%d) exceeded", e.Limit)
	case Interrupted:
		msg = fmt.Sprintf("Render interrupted: %s", e.Cause)
	default:
		if len(e.Name) > 0 {
			msg = fmt.Sprintf("Tag '%s': %s", e.Name, e.Cause)
		} else {
			msg = fmt.Sprintf("Internal error: %s", e.Cause)
		}
	}

	result := []string{msg}
	if e.Pos.IsKnown() {
		line := "    " + e.Pos.AsCompactString()
		if len(e.Pos.GetLine()) > 0 {
			line += " | " + e.Pos.GetLine()
		}
		result = append(result, line)
	}
	for _, trace := range e.Trace {
		result = append(result, "    in "+trace)
	}

	return strings.Join(result, "\n")
}

// AtPosition records pos unless a more precise position is already known.
func (e *RenderError) AtPosition(pos filepos.Position) *RenderError {
	if !e.Pos.IsKnown() {
		e.Pos = pos
	}
	return e
}

// WithTrace appends an enclosing construct to the error trace.
func (e *RenderError) WithTrace(trace string) *RenderError {
	e.Trace = append(e.Trace, trace)
	return e
}

// WithSource attaches the offending source line for display.
func (e *RenderError) WithSource(src string) *RenderError {
	e.Pos = e.Pos.WithSource(src)
	return e
}
