// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/filepos"
	"carvel.dev/liquid/pkg/value"
)

// MaxRangeLength caps the number of elements a range may produce.
const MaxRangeLength = 1_000_000

type Expression interface {
	Evaluate(ctx *Context) (value.Value, error)
}

var _ = []Expression{&Literal{}, &Variable{}, &Range{}, &Comparison{}, &Logical{}}

type Literal struct {
	Value value.Value
}

func (e *Literal) Evaluate(*Context) (value.Value, error) { return e.Value, nil }

type Variable struct {
	Pos       filepos.Position
	Name      string
	Accessors []Accessor
}

// Accessor reads a field by name or an element by evaluated index.
type Accessor struct {
	Pos   filepos.Position
	Field string
	Index Expression
	// Source is the accessor as written, used to report failing paths.
	Source string
}

func (e *Variable) Evaluate(ctx *Context) (value.Value, error) {
	current, found := ctx.Lookup(e.Name)
	if !found {
		return e.undefined(ctx, e.Name, e.Pos)
	}

	path := e.Name
	for _, acc := range e.Accessors {
		path += acc.Source

		var key value.Value
		if acc.Index != nil {
			idx, err := acc.Index.Evaluate(ctx)
			if err != nil {
				return value.Nil, err
			}
			key = idx
		} else {
			key = value.NewString(acc.Field)
		}

		next, found := lookupKey(current, key)
		if !found {
			return e.undefined(ctx, path, acc.Pos)
		}
		current = next
	}
	return current, nil
}

func (e *Variable) undefined(ctx *Context, path string, pos filepos.Position) (value.Value, error) {
	if ctx.Options().StrictVariables {
		return value.Nil, errs.NewUndefinedVariableError(path, pos)
	}
	return value.Nil, nil
}

func lookupKey(container, key value.Value) (value.Value, bool) {
	switch container.Kind() {
	case value.KindObject:
		name, ok := key.AsString()
		if !ok {
			return value.Nil, false
		}
		if val, found := container.Field(name); found {
			return val, true
		}
		if name == "size" {
			return value.NewInt(int64(container.Len())), true
		}

	case value.KindArray:
		if idx, ok := indexOf(key); ok {
			return container.Index(idx)
		}
		if name, ok := key.AsString(); ok {
			switch name {
			case "size":
				return value.NewInt(int64(container.Len())), true
			case "first":
				return container.Index(0)
			case "last":
				return container.Index(-1)
			}
		}

	case value.KindString:
		if name, ok := key.AsString(); ok && name == "size" {
			return value.NewInt(int64(container.Len())), true
		}
	}
	return value.Nil, false
}

func indexOf(key value.Value) (int64, bool) {
	if i, ok := key.AsInt(); ok {
		return i, true
	}
	if f, ok := key.AsFloat(); ok && f == float64(int64(f)) {
		return int64(f), true
	}
	return 0, false
}

// Range evaluates to the inclusive Array of Integers between two bounds.
type Range struct {
	Pos        filepos.Position
	Start, End Expression
}

func (e *Range) Evaluate(ctx *Context) (value.Value, error) {
	start, err := e.bound(ctx, e.Start)
	if err != nil {
		return value.Nil, err
	}
	end, err := e.bound(ctx, e.End)
	if err != nil {
		return value.Nil, err
	}
	if end < start {
		return value.NewArray(nil), nil
	}

	length := end - start + 1
	if length <= 0 || length > MaxRangeLength {
		return value.Nil, errs.NewBudgetExceededError(MaxRangeLength).AtPosition(e.Pos)
	}
	if err := ctx.Consume(length); err != nil {
		return value.Nil, AtPosition(err, e.Pos)
	}

	items := make([]value.Value, 0, length)
	for i := start; i <= end; i++ {
		items = append(items, value.NewInt(i))
	}
	return value.NewArray(items), nil
}

func (e *Range) bound(ctx *Context, expr Expression) (int64, error) {
	val, err := expr.Evaluate(ctx)
	if err != nil {
		return 0, err
	}
	i, err := value.ToInt(val, "range")
	if err != nil {
		return 0, AtPosition(err, e.Pos)
	}
	return i, nil
}

// Comparison applies a binary comparison operator. Values that cannot be
// ordered compare false under every ordering operator.
type Comparison struct {
	Pos         filepos.Position
	Op          string
	Left, Right Expression
}

func (e *Comparison) Evaluate(ctx *Context) (value.Value, error) {
	left, err := e.Left.Evaluate(ctx)
	if err != nil {
		return value.Nil, err
	}
	right, err := e.Right.Evaluate(ctx)
	if err != nil {
		return value.Nil, err
	}

	result, err := Compare(e.Op, left, right)
	if err != nil {
		return value.Nil, AtPosition(err, e.Pos)
	}
	return value.NewBool(result), nil
}

// Compare applies a comparison operator to two values.
func Compare(op string, left, right value.Value) (bool, error) {
	switch op {
	case "==":
		return value.Equal(left, right), nil
	case "!=", "<>":
		return !value.Equal(left, right), nil
	case "contains":
		return value.Contains(left, right), nil
	}

	cmp, ok := value.Compare(left, right)
	if !ok {
		return false, nil
	}
	switch op {
	case "<":
		return cmp < 0, nil
	case ">":
		return cmp > 0, nil
	case "<=":
		return cmp <= 0, nil
	case ">=":
		return cmp >= 0, nil
	default:
		return false, errs.NewInternalError("unknown comparison operator '%s'", op)
	}
}

// Logical is a short-circuiting and/or.
type Logical struct {
	Op          string
	Left, Right Expression
}

func (e *Logical) Evaluate(ctx *Context) (value.Value, error) {
	left, err := e.Left.Evaluate(ctx)
	if err != nil {
		return value.Nil, err
	}

	switch e.Op {
	case "and":
		if !left.Truthy() {
			return value.NewBool(false), nil
		}
	case "or":
		if left.Truthy() {
			return value.NewBool(true), nil
		}
	default:
		return value.Nil, errs.NewInternalError("unknown logical operator '%s'", e.Op)
	}

	right, err := e.Right.Evaluate(ctx)
	if err != nil {
		return value.Nil, err
	}
	return value.NewBool(right.Truthy()), nil
}

// Truthy evaluates expr as a condition.
func Truthy(ctx *Context, expr Expression) (bool, error) {
	val, err := expr.Evaluate(ctx)
	if err != nil {
		return false, err
	}
	return val.Truthy(), nil
}
