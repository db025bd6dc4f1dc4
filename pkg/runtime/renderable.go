// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"errors"
	"fmt"
	"io"

	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/filepos"
)

// Signal is the non-error outcome of rendering a node.
type Signal int

const (
	None Signal = iota
	Break
	Continue
)

func (s Signal) String() string {
	switch s {
	case None:
		return "none"
	case Break:
		return "break"
	case Continue:
		return "continue"
	default:
		panic(fmt.Sprintf("unknown signal %d", int(s)))
	}
}

// Renderable is a compiled node. Implementations must not retain ctx.
type Renderable interface {
	Render(w io.Writer, ctx *Context) (Signal, error)
	Position() filepos.Position
}

var _ = []Renderable{&Text{}, &Output{}, &Sequence{}, &Tagged{}}

type Text struct {
	Pos     filepos.Position
	Content string
}

func (n *Text) Position() filepos.Position { return n.Pos }

func (n *Text) Render(w io.Writer, _ *Context) (Signal, error) {
	_, err := io.WriteString(w, n.Content)
	return None, err
}

// Output writes the rendered value of an expression.
type Output struct {
	Pos  filepos.Position
	Expr Expression
}

func (n *Output) Position() filepos.Position { return n.Pos }

func (n *Output) Render(w io.Writer, ctx *Context) (Signal, error) {
	val, err := n.Expr.Evaluate(ctx)
	if err != nil {
		return None, AtPosition(err, n.Pos)
	}
	_, err = io.WriteString(w, val.Render())
	return None, err
}

// Sequence renders nodes in order, stopping at the first error or signal.
type Sequence struct {
	Pos   filepos.Position
	Nodes []Renderable
}

func (n *Sequence) Position() filepos.Position { return n.Pos }

func (n *Sequence) Render(w io.Writer, ctx *Context) (Signal, error) {
	if err := ctx.Enter(); err != nil {
		return None, AtPosition(err, n.Pos)
	}
	defer ctx.Leave()

	for _, node := range n.Nodes {
		if err := ctx.Step(); err != nil {
			return None, AtPosition(err, node.Position())
		}
		signal, err := node.Render(w, ctx)
		if err != nil || signal != None {
			return signal, err
		}
	}
	return None, nil
}

// Tagged wraps a node compiled from a tag. Failures are annotated with the
// tag markup; errors that are not RenderErrors and panics are converted.
type Tagged struct {
	Name   string
	Markup string
	Pos    filepos.Position
	Node   Renderable
}

func (n *Tagged) Position() filepos.Position { return n.Pos }

func (n *Tagged) Render(w io.Writer, ctx *Context) (signal Signal, resultErr error) {
	defer func() {
		if rec := recover(); rec != nil {
			signal = None
			resultErr = errs.NewTagError(n.Name, fmt.Errorf("%v", rec)).
				AtPosition(n.Pos).WithTrace(n.trace())
		}
	}()

	signal, err := n.Node.Render(w, ctx)
	if err != nil {
		var renderErr *errs.RenderError
		if !errors.As(err, &renderErr) {
			renderErr = errs.NewTagError(n.Name, err)
		}
		return None, renderErr.AtPosition(n.Pos).WithTrace(n.trace())
	}
	return signal, nil
}

func (n *Tagged) trace() string {
	return fmt.Sprintf("%s (%s)", n.Markup, n.Pos.AsCompactString())
}

// AtPosition attaches pos to a RenderError that has no position yet.
func AtPosition(err error, pos filepos.Position) error {
	var renderErr *errs.RenderError
	if errors.As(err, &renderErr) {
		return renderErr.AtPosition(pos)
	}
	return err
}
