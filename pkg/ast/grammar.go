// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"strconv"

	"carvel.dev/liquid/pkg/filepos"
	"carvel.dev/liquid/pkg/value"
)

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<>": true, "<": true, ">": true, "<=": true, ">=": true,
}

// ParseOutput parses the content of an output token: a value followed by
// any number of filters, and nothing else.
func ParseOutput(text string, pos filepos.Position) (Expr, error) {
	args := NewArgs(text, pos)
	if args.IsEnd() {
		return nil, args.Errorf("Expected expression")
	}
	expr, err := args.ParseFilterChain()
	if err != nil {
		return nil, err
	}
	if err := args.ExpectEnd(); err != nil {
		return nil, err
	}
	return expr, nil
}

// ParseFilterChain returns the plain value expression when no filters follow.
func (a *Args) ParseFilterChain() (Expr, error) {
	input, err := a.ParseValue()
	if err != nil {
		return nil, err
	}

	var filters []FilterCall

	for {
		if !a.AcceptSymbol("|") {
			break
		}
		call, err := a.parseFilterCall()
		if err != nil {
			return nil, err
		}
		filters = append(filters, call)
	}

	if len(filters) == 0 {
		return input, nil
	}
	return &FilterChain{Pos: input.Position(), Input: input, Filters: filters}, nil
}

func (a *Args) parseFilterCall() (FilterCall, error) {
	pos := a.Position()
	name, err := a.ExpectIdentifier()
	if err != nil {
		return FilterCall{}, a.Errorf("Expected filter name after '|', found %s", a.Peek().Describe())
	}

	call := FilterCall{Pos: pos, Name: name}
	if !a.AcceptSymbol(":") {
		return call, nil
	}

	for {
		if a.Peek().Kind == Ident && a.PeekAt(1).Kind == Symbol && a.PeekAt(1).Text == ":" {
			kwName, _ := a.ExpectIdentifier()
			a.idx++ // ':'
			val, err := a.ParseValue()
			if err != nil {
				return FilterCall{}, err
			}
			call.Keywords = append(call.Keywords, KeywordArg{Name: kwName, Value: val})
		} else {
			if len(call.Keywords) > 0 {
				return FilterCall{}, a.Errorf("Positional argument follows keyword argument in filter '%s'", name)
			}
			val, err := a.ParseValue()
			if err != nil {
				return FilterCall{}, err
			}
			call.Args = append(call.Args, val)
		}

		if !a.AcceptSymbol(",") {
			return call, nil
		}
	}
}

// ParseCondition parses comparisons joined by and/or. Operators associate
// to the right and share one precedence level.
func (a *Args) ParseCondition() (Expr, error) {
	left, err := a.parseComparison()
	if err != nil {
		return nil, err
	}

	tok := a.Peek()
	if tok.Kind == Ident && (tok.Text == "and" || tok.Text == "or") {
		a.idx++
		right, err := a.ParseCondition()
		if err != nil {
			return nil, err
		}
		return &Logical{Pos: left.Position(), Op: tok.Text, Left: left, Right: right}, nil
	}
	return left, nil
}

func (a *Args) parseComparison() (Expr, error) {
	left, err := a.ParseValue()
	if err != nil {
		return nil, err
	}

	tok := a.Peek()
	isOp := (tok.Kind == Symbol && comparisonOps[tok.Text]) || (tok.Kind == Ident && tok.Text == "contains")
	if !isOp {
		return left, nil
	}
	a.idx++

	right, err := a.ParseValue()
	if err != nil {
		return nil, err
	}
	op := tok.Text
	if op == "<>" {
		op = "!="
	}
	return &Comparison{Pos: left.Position(), Op: op, Left: left, Right: right}, nil
}

// ParseValue parses a literal, a variable path or a range.
func (a *Args) ParseValue() (Expr, error) {
	tok := a.Peek()
	pos := a.Position()

	switch tok.Kind {
	case String:
		a.idx++
		return &Literal{Pos: pos, Value: value.NewString(tok.Text)}, nil

	case Integer:
		a.idx++
		i, err := strconv.ParseInt(tok.Text, 10, 64)
		if err != nil {
			f, ferr := strconv.ParseFloat(tok.Text, 64)
			if ferr != nil {
				return nil, a.errorAt(tok, "Invalid number '%s'", tok.Text)
			}
			return &Literal{Pos: pos, Value: value.NewFloat(f)}, nil
		}
		return &Literal{Pos: pos, Value: value.NewInt(i)}, nil

	case Float:
		a.idx++
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, a.errorAt(tok, "Invalid number '%s'", tok.Text)
		}
		return &Literal{Pos: pos, Value: value.NewFloat(f)}, nil

	case Ident:
		switch tok.Text {
		case "true", "false":
			a.idx++
			return &Literal{Pos: pos, Value: value.NewBool(tok.Text == "true")}, nil
		case "nil", "null":
			a.idx++
			return &Literal{Pos: pos, Value: value.Nil}, nil
		}
		return a.parsePath()

	case Symbol:
		if tok.Text == "(" {
			return a.parseRange()
		}
	}

	return nil, a.Errorf("Expected value, found %s", tok.Describe())
}

func (a *Args) parsePath() (Expr, error) {
	pos := a.Position()
	name, err := a.ExpectIdentifier()
	if err != nil {
		return nil, err
	}

	v := &Variable{Pos: pos, Name: name}

	for {
		accPos := a.Position()
		switch {
		case a.AcceptSymbol("."):
			field, err := a.ExpectIdentifier()
			if err != nil {
				return nil, a.Errorf("Expected field name after '.', found %s", a.Peek().Describe())
			}
			v.Accessors = append(v.Accessors, Accessor{Pos: accPos, Field: field})

		case a.AcceptSymbol("["):
			index, err := a.ParseValue()
			if err != nil {
				return nil, err
			}
			if err := a.ExpectSymbol("]"); err != nil {
				return nil, err
			}
			v.Accessors = append(v.Accessors, Accessor{Pos: accPos, Index: index})

		default:
			return v, nil
		}
	}
}

func (a *Args) parseRange() (Expr, error) {
	pos := a.Position()
	if err := a.ExpectSymbol("("); err != nil {
		return nil, err
	}
	start, err := a.ParseValue()
	if err != nil {
		return nil, err
	}
	if err := a.ExpectSymbol(".."); err != nil {
		return nil, err
	}
	end, err := a.ParseValue()
	if err != nil {
		return nil, err
	}
	if err := a.ExpectSymbol(")"); err != nil {
		return nil, err
	}
	return &Range{Pos: pos, Start: start, End: end}, nil
}

func (a *Args) errorAt(tok ArgToken, format string, args ...interface{}) error {
	pos := a.positionAt(tok.Offset)
	return errorf(pos, format, args...)
}
