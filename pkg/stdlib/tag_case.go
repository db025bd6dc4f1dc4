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

// CaseTag renders the first `when` branch matching the subject.
type CaseTag struct{}

func (CaseTag) Reflection() registry.TagReflection {
	return registry.TagReflection{
		Name:        "case",
		EndTag:      "endcase",
		Markers:     []string{"when", "else"},
		Description: "Renders the first branch whose value equals the subject",
	}
}

func (CaseTag) ParseArguments(tag string, args *ast.Args) (interface{}, error) {
	switch tag {
	case "else":
		return nil, args.ExpectEnd()

	case "when":
		var candidates []ast.Expr
		for {
			candidate, err := args.ParseValue()
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, candidate)
			if !args.AcceptSymbol(",") && !args.AcceptKeyword("or") {
				break
			}
		}
		return candidates, args.ExpectEnd()

	default:
		expr, err := args.ParseFilterChain()
		if err != nil {
			return nil, err
		}
		return expr, args.ExpectEnd()
	}
}

type whenBranch struct {
	candidates []runtime.Expression
	body       runtime.Renderable
}

type caseNode struct {
	pos       filepos.Position
	subject   runtime.Expression
	whens     []whenBranch
	otherwise runtime.Renderable
}

func (CaseTag) Compile(ctx registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	subject, err := ctx.Expression(block.Args.(ast.Expr))
	if err != nil {
		return nil, err
	}

	node := &caseNode{pos: block.Pos, subject: subject}

	for _, branch := range block.Branches {
		if node.otherwise != nil {
			return nil, errs.NewSyntaxError(branch.Pos, "Unexpected '%s' after 'else' in 'case'", branch.Marker)
		}

		body, err := ctx.Body(branch.Body)
		if err != nil {
			return nil, err
		}

		if branch.Marker == "else" {
			node.otherwise = body
			continue
		}

		when := whenBranch{body: body}
		for _, candidate := range branch.Args.([]ast.Expr) {
			compiled, err := ctx.Expression(candidate)
			if err != nil {
				return nil, err
			}
			when.candidates = append(when.candidates, compiled)
		}
		node.whens = append(node.whens, when)
	}

	return node, nil
}

func (n *caseNode) Position() filepos.Position { return n.pos }

func (n *caseNode) Render(w io.Writer, ctx *runtime.Context) (runtime.Signal, error) {
	subject, err := n.subject.Evaluate(ctx)
	if err != nil {
		return runtime.None, err
	}

	for _, when := range n.whens {
		for _, candidate := range when.candidates {
			val, err := candidate.Evaluate(ctx)
			if err != nil {
				return runtime.None, err
			}
			if value.Equal(subject, val) {
				return when.body.Render(w, ctx)
			}
		}
	}

	if n.otherwise != nil {
		return n.otherwise.Render(w, ctx)
	}
	return runtime.None, nil
}
