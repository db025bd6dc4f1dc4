// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package stdlib

import (
	"carvel.dev/liquid/pkg/ast"
	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/version"
	goversion "github.com/hashicorp/go-version"
)

// RequireVersionTag fails compilation when the engine is older than the
// version the template asks for: `{% require_version "0.2" %}`.
type RequireVersionTag struct{}

func (RequireVersionTag) Reflection() registry.TagReflection {
	return registry.TagReflection{Name: "require_version", Description: "Requires a minimum engine version"}
}

func (RequireVersionTag) ParseArguments(_ string, args *ast.Args) (interface{}, error) {
	pos := args.Position()
	tok := args.Peek()
	if tok.Kind != ast.String {
		return nil, args.Errorf("Expected version string, found %s", tok.Describe())
	}
	args.Next()
	if err := args.ExpectEnd(); err != nil {
		return nil, err
	}

	constraint, err := goversion.NewConstraint(">= " + tok.Text)
	if err != nil {
		return nil, errs.NewSyntaxError(pos, "Invalid version '%s': %s", tok.Text, err)
	}

	engineVersion, err := goversion.NewVersion(version.Version)
	if err != nil {
		return nil, errs.NewSyntaxError(pos, "Invalid engine version '%s': %s", version.Version, err)
	}

	if !constraint.Check(engineVersion) {
		return nil, errs.NewSyntaxError(pos,
			"Template requires engine version %s or newer, but this is version %s", tok.Text, version.Version)
	}
	return nil, nil
}

func (RequireVersionTag) Compile(_ registry.CompileContext, block *ast.Block) (runtime.Renderable, error) {
	return emptyNode(block.Pos), nil
}
