// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package stdlib

import (
	"fmt"
	"io"
	"strings"

	"carvel.dev/liquid/pkg/ast"
	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/value"
)

// CommentTag discards its body without parsing it.
type CommentTag struct{}

func (CommentTag) Reflection() registry.TagReflection {
	return registry.TagReflection{Name: "comment", EndTag: "endcomment", Raw: true, Description: "Discards its body"}
}

func (CommentTag) ParseArguments(tag string, args *ast.Args) (interface{}, error) {
	return ignoreArguments(tag, args)
}

func (CommentTag) Compile(_ registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	return emptyNode(block.Pos), nil
}

// InlineCommentTag is `{% # text %}`.
type InlineCommentTag struct{}

func (InlineCommentTag) Reflection() registry.TagReflection {
	return registry.TagReflection{Name: "#", Description: "Inline comment"}
}

func (InlineCommentTag) ParseArguments(tag string, args *ast.Args) (interface{}, error) {
	return ignoreArguments(tag, args)
}

func (InlineCommentTag) Compile(_ registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	return emptyNode(block.Pos), nil
}

// RawTag outputs its body verbatim.
type RawTag struct{}

func (RawTag) Reflection() registry.TagReflection {
	return registry.TagReflection{Name: "raw", EndTag: "endraw", Raw: true, Description: "Outputs its body without interpreting it"}
}

func (RawTag) ParseArguments(tag string, args *ast.Args) (interface{}, error) {
	return noArguments(tag, args)
}

func (RawTag) Compile(_ registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	var sb strings.Builder
	for _, node := range block.Body {
		if text, ok := node.(*ast.Text); ok {
			sb.WriteString(text.Content)
		}
	}
	content := sb.String()

	return newNode(block.Pos, func(w io.Writer, _ *runtime.Context) (runtime.Signal, error) {
		_, err := io.WriteString(w, content)
		return runtime.None, err
	}), nil
}

// IfChangedTag outputs its body only when it differs from the previous
// rendering of any ifchanged block in the same render.
type IfChangedTag struct{}

type ifChangedState struct {
	last    string
	present bool
}

func (IfChangedTag) Reflection() registry.TagReflection {
	return registry.TagReflection{Name: "ifchanged", EndTag: "endifchanged", Description: "Outputs its body when it changed since the last time"}
}

func (IfChangedTag) ParseArguments(tag string, args *ast.Args) (interface{}, error) {
	return noArguments(tag, args)
}

func (IfChangedTag) Compile(ctx registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	body, err := ctx.Body(block.Body)
	if err != nil {
		return nil, err
	}

	return newNode(block.Pos, func(w io.Writer, rctx *runtime.Context) (runtime.Signal, error) {
		out, signal, err := runtime.Capture(body, rctx)
		if err != nil {
			return runtime.None, err
		}

		state := rctx.Register("ifchanged", func() interface{} { return &ifChangedState{} }).(*ifChangedState)
		if !state.present || state.last != out {
			if _, err := io.WriteString(w, out); err != nil {
				return runtime.None, err
			}
		}
		state.last, state.present = out, true

		return signal, nil
	}), nil
}

// CycleTag outputs its values in turn, one per rendering. Cycles with the
// same group (or the same values when ungrouped) share their position.
type CycleTag struct{}

type cycleArgs struct {
	group  ast.Expr
	values []ast.Expr
}

func (CycleTag) Reflection() registry.TagReflection {
	return registry.TagReflection{Name: "cycle", Description: "Outputs the next of its values on each rendering"}
}

func (CycleTag) ParseArguments(_ string, args *ast.Args) (interface{}, error) {
	var result cycleArgs

	first, err := args.ParseValue()
	if err != nil {
		return nil, err
	}
	if args.AcceptSymbol(":") {
		result.group = first
	} else {
		result.values = append(result.values, first)
		if !args.AcceptSymbol(",") {
			return result, args.ExpectEnd()
		}
	}

	for {
		val, err := args.ParseValue()
		if err != nil {
			return nil, err
		}
		result.values = append(result.values, val)
		if !args.AcceptSymbol(",") {
			break
		}
	}
	return result, args.ExpectEnd()
}

func (CycleTag) Compile(ctx registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	args := block.Args.(cycleArgs)

	var group runtime.Expression
	if args.group != nil {
		var err error
		group, err = ctx.Expression(args.group)
		if err != nil {
			return nil, err
		}
	}

	var values []runtime.Expression
	var sources []string
	for _, val := range args.values {
		compiled, err := ctx.Expression(val)
		if err != nil {
			return nil, err
		}
		values = append(values, compiled)
		sources = append(sources, val.Source())
	}
	defaultKey := strings.Join(sources, ", ")

	return newNode(block.Pos, func(w io.Writer, rctx *runtime.Context) (runtime.Signal, error) {
		key := defaultKey
		if group != nil {
			groupVal, err := group.Evaluate(rctx)
			if err != nil {
				return runtime.None, err
			}
			key = fmt.Sprintf("group:%s", groupVal.Render())
		}

		positions := rctx.Register("cycle", func() interface{} { return map[string]int{} }).(map[string]int)
		idx := positions[key] % len(values)
		positions[key] = idx + 1

		val, err := values[idx].Evaluate(rctx)
		if err != nil {
			return runtime.None, err
		}
		_, err = io.WriteString(w, val.Render())
		return runtime.None, err
	}), nil
}

// IncrementTag outputs a counter and then increments it. Counters are
// separate from assigned variables and shared with decrement.
type IncrementTag struct{}

func (IncrementTag) Reflection() registry.TagReflection {
	return registry.TagReflection{Name: "increment", Description: "Outputs a counter, then increments it"}
}

func (IncrementTag) ParseArguments(_ string, args *ast.Args) (interface{}, error) {
	return parseCounterName(args)
}

func (IncrementTag) Compile(_ registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	return compileCounter(block, 1), nil
}

// DecrementTag decrements a counter and then outputs it.
type DecrementTag struct{}

func (DecrementTag) Reflection() registry.TagReflection {
	return registry.TagReflection{Name: "decrement", Description: "Decrements a counter, then outputs it"}
}

func (DecrementTag) ParseArguments(_ string, args *ast.Args) (interface{}, error) {
	return parseCounterName(args)
}

func (DecrementTag) Compile(_ registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	return compileCounter(block, -1), nil
}

func parseCounterName(args *ast.Args) (interface{}, error) {
	name, err := args.ExpectIdentifier()
	if err != nil {
		return nil, err
	}
	return name, args.ExpectEnd()
}

func compileCounter(block *ast.Block, delta int64) runtime.Renderable {
	name := block.Args.(string)

	return newNode(block.Pos, func(w io.Writer, rctx *runtime.Context) (runtime.Signal, error) {
		counters := rctx.Register("counters", func() interface{} { return map[string]int64{} }).(map[string]int64)

		current := counters[name]
		if delta < 0 {
			current += delta
			counters[name] = current
		} else {
			counters[name] = current + delta
		}

		_, err := io.WriteString(w, value.NewInt(current).Render())
		return runtime.None, err
	})
}
