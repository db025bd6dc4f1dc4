// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"carvel.dev/liquid/pkg/ast"
	"carvel.dev/liquid/pkg/runtime"
)

// TagReflection describes the shape of a tag to the lexer and parser.
type TagReflection struct {
	Name string
	// EndTag is set for block tags (e.g. "endif").
	EndTag string
	// Markers are intermediate tags splitting a block into branches.
	Markers []string
	// Raw block bodies are kept as text and never lexed.
	Raw         bool
	Description string
}

func (r TagReflection) IsBlock() bool { return len(r.EndTag) > 0 }

func (r TagReflection) HasMarker(name string) bool {
	for _, marker := range r.Markers {
		if marker == name {
			return true
		}
	}
	return false
}

// TagParser implements a tag. ParseArguments is called with the opening
// tag name and with every marker name; its result ends up in Block.Args
// and Branch.Args respectively.
type TagParser interface {
	Reflection() TagReflection
	ParseArguments(tag string, args *ast.Args) (interface{}, error)
	Compile(ctx CompileContext, block *ast.Block) (runtime.Renderable, error)
}

// CompileContext is the part of the compiler exposed to tags.
type CompileContext interface {
	// Expression compiles an argument expression (binding its filters).
	Expression(expr ast.Expr) (runtime.Expression, error)
	// Body compiles a run of nodes into a single Renderable.
	Body(nodes []ast.Node) (runtime.Renderable, error)
	// TemplateName is the name associated with the template being compiled.
	TemplateName() string
}

// BlockEndTag returns the conventional end tag for a block named name.
func BlockEndTag(name string) string { return "end" + name }
