// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package stdlib

import (
	"io"

	"carvel.dev/liquid/pkg/ast"
	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/value"
)

// AssignTag implements `{% assign name = expr | filters %}`.
type AssignTag struct{}

type assignArgs struct {
	name string
	expr ast.Expr
}

func (AssignTag) Reflection() registry.TagReflection {
	return registry.TagReflection{Name: "assign", Description: "Binds a variable for the rest of the render"}
}

func (AssignTag) ParseArguments(_ string, args *ast.Args) (interface{}, error) {
	name, err := args.ExpectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := args.ExpectSymbol("="); err != nil {
		return nil, err
	}
	expr, err := args.ParseFilterChain()
	if err != nil {
		return nil, err
	}
	return assignArgs{name, expr}, args.ExpectEnd()
}

func (AssignTag) Compile(ctx registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	args := block.Args.(assignArgs)

	expr, err := ctx.Expression(args.expr)
	if err != nil {
		return nil, err
	}

	return newNode(block.Pos, func(_ io.Writer, rctx *runtime.Context) (runtime.Signal, error) {
		val, err := expr.Evaluate(rctx)
		if err != nil {
			return runtime.None, err
		}
		rctx.Assign(args.name, val)
		return runtime.None, nil
	}), nil
}

// CaptureTag renders its body into a String variable.
type CaptureTag struct{}

func (CaptureTag) Reflection() registry.TagReflection {
	return registry.TagReflection{Name: "capture", EndTag: "endcapture", Description: "Binds the rendered body to a variable"}
}

func (CaptureTag) ParseArguments(_ string, args *ast.Args) (interface{}, error) {
	tok := args.Peek()
	var name string
	switch tok.Kind {
	case ast.Ident, ast.String:
		args.Next()
		name = tok.Text
	default:
		return nil, args.Errorf("Expected variable name, found %s", tok.Describe())
	}
	return name, args.ExpectEnd()
}

func (CaptureTag) Compile(ctx registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	name := block.Args.(string)

	body, err := ctx.Body(block.Body)
	if err != nil {
		return nil, err
	}

	return newNode(block.Pos, func(_ io.Writer, rctx *runtime.Context) (runtime.Signal, error) {
		out, signal, err := runtime.Capture(body, rctx)
		if err != nil {
			return runtime.None, err
		}
		rctx.Assign(name, value.NewString(out))
		return signal, nil
	}), nil
}
