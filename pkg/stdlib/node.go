// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package stdlib

import (
	"io"

	"carvel.dev/liquid/pkg/ast"
	"carvel.dev/liquid/pkg/filepos"
	"carvel.dev/liquid/pkg/runtime"
)

type renderFunc func(w io.Writer, ctx *runtime.Context) (runtime.Signal, error)

// funcNode adapts a closure into a Renderable.
type funcNode struct {
	pos    filepos.Position
	render renderFunc
}

func (n *funcNode) Position() filepos.Position { return n.pos }

func (n *funcNode) Render(w io.Writer, ctx *runtime.Context) (runtime.Signal, error) {
	return n.render(w, ctx)
}

func newNode(pos filepos.Position, render renderFunc) runtime.Renderable {
	return &funcNode{pos: pos, render: render}
}

func emptyNode(pos filepos.Position) runtime.Renderable {
	return newNode(pos, func(io.Writer, *runtime.Context) (runtime.Signal, error) {
		return runtime.None, nil
	})
}

func noArguments(_ string, args *ast.Args) (interface{}, error) {
	return nil, args.ExpectEnd()
}

func ignoreArguments(string, *ast.Args) (interface{}, error) {
	return nil, nil
}

// parseCondition parses a full condition and rejects trailing tokens.
func parseCondition(args *ast.Args) (ast.Expr, error) {
	expr, err := args.ParseCondition()
	if err != nil {
		return nil, err
	}
	return expr, args.ExpectEnd()
}
