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
	"carvel.dev/liquid/pkg/value"
)

// ForTag implements
// `{% for item in collection [limit: n] [offset: n] [reversed] %}...{% else %}...{% endfor %}`.
type ForTag struct{}

type forArgs struct {
	name       string
	collection ast.Expr
	limit      ast.Expr
	offset     ast.Expr
	reversed   bool
}

func (ForTag) Reflection() registry.TagReflection {
	return registry.TagReflection{
		Name:        "for",
		EndTag:      "endfor",
		Markers:     []string{"else"},
		Description: "Renders its body once per element of a collection",
	}
}

func (ForTag) ParseArguments(tag string, args *ast.Args) (interface{}, error) {
	if tag == "else" {
		return nil, args.ExpectEnd()
	}

	name, err := args.ExpectIdentifier()
	if err != nil {
		return nil, err
	}
	if err := args.ExpectKeyword("in"); err != nil {
		return nil, err
	}

	result := forArgs{name: name}

	result.collection, err = args.ParseValue()
	if err != nil {
		return nil, err
	}

	for !args.IsEnd() {
		pos := args.Position()
		switch {
		case args.AcceptKeyword("reversed"):
			result.reversed = true
		case args.AcceptKeyword("limit"):
			result.limit, err = parseOptionValue(args, "limit", result.limit, pos)
		case args.AcceptKeyword("offset"):
			result.offset, err = parseOptionValue(args, "offset", result.offset, pos)
		default:
			return nil, args.Errorf("Unexpected %s in 'for' (expected 'limit:', 'offset:' or 'reversed')", args.Peek().Describe())
		}
		if err != nil {
			return nil, err
		}
		args.AcceptSymbol(",")
	}

	return result, nil
}

func parseOptionValue(args *ast.Args, name string, existing ast.Expr, pos filepos.Position) (ast.Expr, error) {
	if existing != nil {
		return nil, errs.NewSyntaxError(pos, "Option '%s' given more than once", name)
	}
	if err := args.ExpectSymbol(":"); err != nil {
		return nil, err
	}
	return args.ParseValue()
}

type forNode struct {
	pos        filepos.Position
	name       string
	collection runtime.Expression
	limit      runtime.Expression
	offset     runtime.Expression
	reversed   bool
	body       runtime.Renderable
	otherwise  runtime.Renderable
}

func (ForTag) Compile(ctx registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	args := block.Args.(forArgs)
	node := &forNode{pos: block.Pos, name: args.name, reversed: args.reversed}

	var err error

	node.collection, err = ctx.Expression(args.collection)
	if err != nil {
		return nil, err
	}
	if args.limit != nil {
		if node.limit, err = ctx.Expression(args.limit); err != nil {
			return nil, err
		}
	}
	if args.offset != nil {
		if node.offset, err = ctx.Expression(args.offset); err != nil {
			return nil, err
		}
	}

	node.body, err = ctx.Body(block.Body)
	if err != nil {
		return nil, err
	}

	for i, branch := range block.Branches {
		if i > 0 {
			return nil, errs.NewSyntaxError(branch.Pos, "Unexpected '%s' after 'else' in 'for'", branch.Marker)
		}
		node.otherwise, err = ctx.Body(branch.Body)
		if err != nil {
			return nil, err
		}
	}

	return node, nil
}

func (n *forNode) Position() filepos.Position { return n.pos }

func (n *forNode) Render(w io.Writer, ctx *runtime.Context) (runtime.Signal, error) {
	collection, err := n.collection.Evaluate(ctx)
	if err != nil {
		return runtime.None, err
	}

	items, err := iterable(collection)
	if err != nil {
		return runtime.None, runtime.AtPosition(err, n.pos)
	}

	items, err = n.window(ctx, items)
	if err != nil {
		return runtime.None, err
	}

	if len(items) == 0 {
		if n.otherwise != nil {
			return n.otherwise.Render(w, ctx)
		}
		return runtime.None, nil
	}

	return runtime.None, runtime.Loop(w, ctx, n.name, items, n.body)
}

// window applies offset, then limit, then reversal.
func (n *forNode) window(ctx *runtime.Context, items []value.Value) ([]value.Value, error) {
	if n.offset != nil {
		offset, err := evaluateInt(ctx, n.offset, "offset")
		if err != nil {
			return nil, err
		}
		if offset > int64(len(items)) {
			offset = int64(len(items))
		}
		if offset > 0 {
			items = items[offset:]
		}
	}

	if n.limit != nil {
		limit, err := evaluateInt(ctx, n.limit, "limit")
		if err != nil {
			return nil, err
		}
		if limit < 0 {
			limit = 0
		}
		if limit < int64(len(items)) {
			items = items[:limit]
		}
	}

	if n.reversed {
		reversed := make([]value.Value, len(items))
		for i, item := range items {
			reversed[len(items)-1-i] = item
		}
		items = reversed
	}

	return items, nil
}

// iterable lists the elements a loop visits. Objects yield [key, value]
// pairs; a String is a single element; Nil is empty.
func iterable(collection value.Value) ([]value.Value, error) {
	switch collection.Kind() {
	case value.KindNil:
		return nil, nil
	case value.KindArray:
		items, _ := collection.AsArray()
		return items, nil
	case value.KindObject:
		obj, _ := collection.AsObject()
		var pairs []value.Value
		obj.Iterate(func(key string, val value.Value) {
			pairs = append(pairs, value.NewArray([]value.Value{value.NewString(key), val}))
		})
		return pairs, nil
	case value.KindString:
		if collection.Len() == 0 {
			return nil, nil
		}
		return []value.Value{collection}, nil
	default:
		return nil, errs.NewTypeError("for", collection.Kind().String())
	}
}

func evaluateInt(ctx *runtime.Context, expr runtime.Expression, operation string) (int64, error) {
	val, err := expr.Evaluate(ctx)
	if err != nil {
		return 0, err
	}
	return value.ToInt(val, operation)
}

type BreakTag struct{}

func (BreakTag) Reflection() registry.TagReflection {
	return registry.TagReflection{Name: "break", Description: "Stops the innermost loop"}
}

func (BreakTag) ParseArguments(tag string, args *ast.Args) (interface{}, error) {
	return noArguments(tag, args)
}

func (BreakTag) Compile(_ registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	return newNode(block.Pos, func(io.Writer, *runtime.Context) (runtime.Signal, error) {
		return runtime.Break, nil
	}), nil
}

type ContinueTag struct{}

func (ContinueTag) Reflection() registry.TagReflection {
	return registry.TagReflection{Name: "continue", Description: "Skips to the next iteration of the innermost loop"}
}

func (ContinueTag) ParseArguments(tag string, args *ast.Args) (interface{}, error) {
	return noArguments(tag, args)
}

func (ContinueTag) Compile(_ registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	return newNode(block.Pos, func(io.Writer, *runtime.Context) (runtime.Signal, error) {
		return runtime.Continue, nil
	}), nil
}
