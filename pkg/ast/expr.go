// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"fmt"
	"strings"

	"carvel.dev/liquid/pkg/filepos"
	"carvel.dev/liquid/pkg/value"
)

type Expr interface {
	Position() filepos.Position
	Source() string
}

var _ = []Expr{&Literal{}, &Variable{}, &Range{}, &FilterChain{}, &Comparison{}, &Logical{}}

type Literal struct {
	Pos   filepos.Position
	Value value.Value
}

// Variable is a path rooted at a name looked up in the render context.
type Variable struct {
	Pos       filepos.Position
	Name      string
	Accessors []Accessor
}

// Accessor is either `.Field` or `[Index]`.
type Accessor struct {
	Pos   filepos.Position
	Field string
	Index Expr
}

type Range struct {
	Pos        filepos.Position
	Start, End Expr
}

type FilterChain struct {
	Pos     filepos.Position
	Input   Expr
	Filters []FilterCall
}

type FilterCall struct {
	Pos      filepos.Position
	Name     string
	Args     []Expr
	Keywords []KeywordArg
}

type KeywordArg struct {
	Name  string
	Value Expr
}

type Comparison struct {
	Pos         filepos.Position
	Op          string
	Left, Right Expr
}

// Logical is `and`/`or`, evaluated right-associatively without precedence.
type Logical struct {
	Pos         filepos.Position
	Op          string
	Left, Right Expr
}

func (e *Literal) Position() filepos.Position     { return e.Pos }
func (e *Variable) Position() filepos.Position    { return e.Pos }
func (e *Range) Position() filepos.Position       { return e.Pos }
func (e *FilterChain) Position() filepos.Position { return e.Pos }
func (e *Comparison) Position() filepos.Position  { return e.Pos }
func (e *Logical) Position() filepos.Position     { return e.Pos }

func (e *Literal) Source() string { return e.Value.Source() }

func (e *Variable) Source() string {
	var sb strings.Builder
	sb.WriteString(e.Name)
	for _, acc := range e.Accessors {
		sb.WriteString(acc.Source())
	}
	return sb.String()
}

func (a Accessor) Source() string {
	if a.Index != nil {
		return "[" + a.Index.Source() + "]"
	}
	return "." + a.Field
}

func (e *Range) Source() string {
	return fmt.Sprintf("(%s..%s)", e.Start.Source(), e.End.Source())
}

func (e *FilterChain) Source() string {
	parts := []string{e.Input.Source()}
	for _, f := range e.Filters {
		parts = append(parts, f.Source())
	}
	return strings.Join(parts, " | ")
}

func (f FilterCall) Source() string {
	var args []string
	for _, arg := range f.Args {
		args = append(args, arg.Source())
	}
	for _, kw := range f.Keywords {
		args = append(args, kw.Name+": "+kw.Value.Source())
	}
	if len(args) == 0 {
		return f.Name
	}
	return f.Name + ": " + strings.Join(args, ", ")
}

func (e *Comparison) Source() string {
	return fmt.Sprintf("%s %s %s", e.Left.Source(), e.Op, e.Right.Source())
}

func (e *Logical) Source() string {
	return fmt.Sprintf("%s %s %s", e.Left.Source(), e.Op, e.Right.Source())
}
