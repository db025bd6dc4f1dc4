// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"errors"
	"fmt"

	"carvel.dev/liquid/pkg/ast"
	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/filepos"
	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
)

type Options struct {
	// LateBoundFilters defers unknown filters to render time instead of
	// failing compilation.
	LateBoundFilters bool
}

type Compiler struct {
	reg  *registry.Registry
	opts Options
}

func NewCompiler(reg *registry.Registry, opts Options) *Compiler {
	return &Compiler{reg: reg, opts: opts}
}

// Compile produces the executable form of root.
func (c *Compiler) Compile(root *ast.Root) (runtime.Renderable, error) {
	ctx := &compileContext{compiler: c, name: root.Name}

	result, err := ctx.sequence(filepos.NewPosition(root.Name), root.Nodes)
	if err != nil {
		var compileErr *errs.CompileError
		if errors.As(err, &compileErr) {
			return nil, compileErr.WithSource(root.Source)
		}
		return nil, err
	}
	return result, nil
}

type compileContext struct {
	compiler *Compiler
	name     string
}

var _ registry.CompileContext = &compileContext{}

func (c *compileContext) TemplateName() string { return c.name }

func (c *compileContext) Body(nodes []ast.Node) (runtime.Renderable, error) {
	pos := filepos.NewUnknownPosition()
	if len(nodes) > 0 {
		pos = nodes[0].Position()
	}
	return c.sequence(pos, nodes)
}

func (c *compileContext) sequence(pos filepos.Position, nodes []ast.Node) (*runtime.Sequence, error) {
	result := &runtime.Sequence{Pos: pos}

	for _, node := range nodes {
		compiled, err := c.node(node)
		if err != nil {
			return nil, err
		}
		result.Nodes = append(result.Nodes, compiled)
	}
	return result, nil
}

func (c *compileContext) node(node ast.Node) (runtime.Renderable, error) {
	switch typedNode := node.(type) {
	case *ast.Text:
		return &runtime.Text{Pos: typedNode.Pos, Content: typedNode.Content}, nil

	case *ast.Output:
		expr, err := c.Expression(typedNode.Expr)
		if err != nil {
			return nil, err
		}
		return &runtime.Output{Pos: typedNode.Pos, Expr: expr}, nil

	case *ast.Block:
		return c.block(typedNode)

	default:
		panic(fmt.Sprintf("Unknown node type %T", node))
	}
}

func (c *compileContext) block(block *ast.Block) (runtime.Renderable, error) {
	tag, found := c.compiler.reg.Tag(block.Name)
	if !found {
		return nil, errs.NewUnknownTagError(block.Name, block.Pos, c.compiler.reg.TagNames())
	}

	compiled, err := tag.Compile(c, block)
	if err != nil {
		var compileErr *errs.CompileError
		if errors.As(err, &compileErr) {
			return nil, compileErr
		}
		return nil, errs.NewSyntaxError(block.Pos, "Tag '%s': %s", block.Name, err)
	}

	return &runtime.Tagged{Name: block.Name, Markup: block.Markup, Pos: block.Pos, Node: compiled}, nil
}
