// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package stdlib

import (
	"io"

	"carvel.dev/liquid/pkg/ast"
	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/filepos"
	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
)

type IfTag struct{}

func (IfTag) Reflection() registry.TagReflection {
	return registry.TagReflection{
		Name:        "if",
		EndTag:      "endif",
		Markers:     []string{"elsif", "else"},
		Description: "Renders the first branch whose condition is truthy",
	}
}

func (IfTag) ParseArguments(tag string, args *ast.Args) (interface{}, error) {
	return parseBranchArgs(tag, args)
}

func (IfTag) Compile(ctx registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	return compileConditional(ctx, block, false)
}

// UnlessTag is `if` with the first condition negated.
type UnlessTag struct{}

func (UnlessTag) Reflection() registry.TagReflection {
	return registry.TagReflection{
		Name:        "unless",
		EndTag:      "endunless",
		Markers:     []string{"elsif", "else"},
		Description: "Renders its body when the condition is falsy",
	}
}

func (UnlessTag) ParseArguments(tag string, args *ast.Args) (interface{}, error) {
	return parseBranchArgs(tag, args)
}

func (UnlessTag) Compile(ctx registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	return compileConditional(ctx, block, true)
}

func parseBranchArgs(tag string, args *ast.Args) (interface{}, error) {
	if tag == "else" {
		return nil, args.ExpectEnd()
	}
	if args.IsEnd() {
		return nil, args.Errorf("Expected condition after '%s'", tag)
	}
	return parseCondition(args)
}

type conditionalBranch struct {
	cond runtime.Expression
	body runtime.Renderable
}

type conditionalNode struct {
	pos         filepos.Position
	branches    []conditionalBranch
	otherwise   runtime.Renderable
	negateFirst bool
}

func compileConditional(ctx registry.CompileContext, block *ast.Block, negateFirst bool) (runtime.Renderable, error) {
	node := &conditionalNode{pos: block.Pos, negateFirst: negateFirst}

	if err := node.addBranch(ctx, block.Args.(ast.Expr), block.Body); err != nil {
		return nil, err
	}

	for _, branch := range block.Branches {
		if node.otherwise != nil {
			return nil, errs.NewSyntaxError(branch.Pos, "Unexpected '%s' after 'else' in '%s'", branch.Marker, block.Name)
		}

		switch branch.Marker {
		case "elsif":
			if err := node.addBranch(ctx, branch.Args.(ast.Expr), branch.Body); err != nil {
				return nil, err
			}
		case "else":
			body, err := ctx.Body(branch.Body)
			if err != nil {
				return nil, err
			}
			node.otherwise = body
		}
	}

	return node, nil
}

func (n *conditionalNode) addBranch(ctx registry.CompileContext, condExpr ast.Expr, nodes []ast.Node) error {
	cond, err := ctx.Expression(condExpr)
	if err != nil {
		return err
	}
	body, err := ctx.Body(nodes)
	if err != nil {
		return err
	}
	n.branches = append(n.branches, conditionalBranch{cond, body})
	return nil
}

func (n *conditionalNode) Position() filepos.Position { return n.pos }

func (n *conditionalNode) Render(w io.Writer, ctx *runtime.Context) (runtime.Signal, error) {
	for i, branch := range n.branches {
		truthy, err := runtime.Truthy(ctx, branch.cond)
		if err != nil {
			return runtime.None, err
		}
		if i == 0 && n.negateFirst {
			truthy = !truthy
		}
		if truthy {
			return branch.body.Render(w, ctx)
		}
	}

	if n.otherwise != nil {
		return n.otherwise.Render(w, ctx)
	}
	return runtime.None, nil
}
