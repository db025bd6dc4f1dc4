// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"fmt"

	"carvel.dev/liquid/pkg/ast"
	"carvel.dev/liquid/pkg/runtime"
)

func (c *compileContext) Expression(expr ast.Expr) (runtime.Expression, error) {
	switch typedExpr := expr.(type) {
	case *ast.Literal:
		return &runtime.Literal{Value: typedExpr.Value}, nil

	case *ast.Variable:
		result := &runtime.Variable{Pos: typedExpr.Pos, Name: typedExpr.Name}
		for _, acc := range typedExpr.Accessors {
			compiled := runtime.Accessor{Pos: acc.Pos, Field: acc.Field, Source: acc.Source()}
			if acc.Index != nil {
				index, err := c.Expression(acc.Index)
				if err != nil {
					return nil, err
				}
				compiled.Index = index
			}
			result.Accessors = append(result.Accessors, compiled)
		}
		return result, nil

	case *ast.Range:
		start, end, err := c.pair(typedExpr.Start, typedExpr.End)
		if err != nil {
			return nil, err
		}
		return &runtime.Range{Pos: typedExpr.Pos, Start: start, End: end}, nil

	case *ast.Comparison:
		left, right, err := c.pair(typedExpr.Left, typedExpr.Right)
		if err != nil {
			return nil, err
		}
		return &runtime.Comparison{Pos: typedExpr.Pos, Op: typedExpr.Op, Left: left, Right: right}, nil

	case *ast.Logical:
		left, right, err := c.pair(typedExpr.Left, typedExpr.Right)
		if err != nil {
			return nil, err
		}
		return &runtime.Logical{Op: typedExpr.Op, Left: left, Right: right}, nil

	case *ast.FilterChain:
		return c.filterChain(typedExpr)

	default:
		panic(fmt.Sprintf("Unknown expression type %T", expr))
	}
}

func (c *compileContext) pair(left, right ast.Expr) (runtime.Expression, runtime.Expression, error) {
	compiledLeft, err := c.Expression(left)
	if err != nil {
		return nil, nil, err
	}
	compiledRight, err := c.Expression(right)
	if err != nil {
		return nil, nil, err
	}
	return compiledLeft, compiledRight, nil
}
