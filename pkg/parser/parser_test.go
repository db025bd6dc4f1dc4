// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package parser_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"carvel.dev/liquid/pkg/ast"
	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/parser"
	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTag struct {
	refl  registry.TagReflection
	calls *[]string
}

func (t testTag) Reflection() registry.TagReflection { return t.refl }

func (t testTag) ParseArguments(tag string, args *ast.Args) (interface{}, error) {
	if t.calls != nil {
		*t.calls = append(*t.calls, tag+":"+strings.TrimSpace(args.Text()))
	}
	if t.refl.Raw || len(strings.TrimSpace(args.Text())) == 0 {
		return nil, nil
	}
	if strings.TrimSpace(args.Text()) == "fail" {
		return nil, fmt.Errorf("bad arguments")
	}
	expr, err := args.ParseCondition()
	if err != nil {
		return nil, err
	}
	return expr, args.ExpectEnd()
}

func (t testTag) Compile(registry.CompileContext, *ast.Block) (runtime.Renderable, error) {
	return nil, fmt.Errorf("not compiled in parser tests")
}

func newParser(t *testing.T, calls *[]string) *parser.Parser {
	reg := registry.New()
	tags := []registry.TagReflection{
		{Name: "if", EndTag: "endif", Markers: []string{"elsif", "else"}},
		{Name: "for", EndTag: "endfor", Markers: []string{"else"}},
		{Name: "raw", EndTag: "endraw", Raw: true},
		{Name: "assign"},
		{Name: "break"},
	}
	for _, refl := range tags {
		require.NoError(t, reg.RegisterTag(testTag{refl, calls}))
	}
	return parser.NewParser(reg, 3)
}

func TestParseNodes(t *testing.T) {
	root, err := newParser(t, nil).Parse("Hello {{ name | upcase }}!", "tpl")
	require.NoError(t, err)
	require.Len(t, root.Nodes, 3)

	assert.Equal(t, "Hello ", root.Nodes[0].(*ast.Text).Content)
	output := root.Nodes[1].(*ast.Output)
	assert.Equal(t, "name | upcase", output.Expr.Source())
	assert.Equal(t, "{{ name | upcase }}", output.Markup)
	assert.Equal(t, 6, output.Pos.Offset)
	assert.Equal(t, "!", root.Nodes[2].(*ast.Text).Content)
}

func TestParseBlockWithBranches(t *testing.T) {
	var calls []string
	root, err := newParser(t, &calls).Parse("{% if a %}A{% elsif b %}B{% else %}C{% endif %}", "tpl")
	require.NoError(t, err)
	require.Len(t, root.Nodes, 1)

	block := root.Nodes[0].(*ast.Block)
	assert.Equal(t, "if", block.Name)
	assert.Equal(t, "a", block.Args.(ast.Expr).Source())
	require.Len(t, block.Body, 1)
	require.Len(t, block.Branches, 2)
	assert.Equal(t, "elsif", block.Branches[0].Marker)
	assert.Equal(t, "b", block.Branches[0].Args.(ast.Expr).Source())
	assert.Equal(t, "else", block.Branches[1].Marker)
	assert.Equal(t, "C", block.Branches[1].Body[0].(*ast.Text).Content)
	assert.Equal(t, 36, block.EndPos.Offset)

	assert.Equal(t, []string{"if:a", "elsif:b", "else:"}, calls)
}

func TestParseNestedBlocks(t *testing.T) {
	root, err := newParser(t, nil).Parse("{% for x %}{% if x %}{% break %}{% endif %}{% else %}none{% endfor %}", "tpl")
	require.NoError(t, err)

	forBlock := root.Nodes[0].(*ast.Block)
	ifBlock := forBlock.Body[0].(*ast.Block)
	assert.Equal(t, "break", ifBlock.Body[0].(*ast.Block).Name)
	assert.Empty(t, ifBlock.Branches)
	assert.Equal(t, "else", forBlock.Branches[0].Marker)
}

func TestParseRawBody(t *testing.T) {
	root, err := newParser(t, nil).Parse("{% raw %}{{ not parsed }}{% if %}{% endraw %}", "tpl")
	require.NoError(t, err)

	block := root.Nodes[0].(*ast.Block)
	require.Len(t, block.Body, 1)
	assert.Equal(t, "{{ not parsed }}{% if %}", block.Body[0].(*ast.Text).Content)
}

func TestUnknownTag(t *testing.T) {
	_, err := newParser(t, nil).Parse("{% iff x %}{% endif %}", "tpl")

	var compileErr *errs.CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, errs.UnknownTag, compileErr.Kind)
	assert.Equal(t, "iff", compileErr.Name)
	assert.Equal(t, 0, compileErr.Offset())
	assert.Equal(t, "Unknown tag 'iff' (hint: did you mean 'if'?)\n    tpl:1:1 | {% iff x %}{% endif %}", err.Error())
}

func TestUnclosedBlock(t *testing.T) {
	_, err := newParser(t, nil).Parse("a\n  {% if x %}b", "tpl")

	var compileErr *errs.CompileError
	require.True(t, errors.As(err, &compileErr))
	assert.Equal(t, errs.Syntax, compileErr.Kind)
	assert.Equal(t, "Tag 'if' was never closed (expected '{% endif %}')", compileErr.Msg)
	assert.Equal(t, 2, compileErr.Pos.Line)
	assert.Equal(t, 3, compileErr.Pos.Col)
}

func TestUnexpectedClosingTags(t *testing.T) {
	cases := map[string]string{
		"{% endif %}":                     "Unexpected tag 'endif' outside of a block",
		"{% else %}":                      "Unexpected tag 'else' outside of a block",
		"{% for x %}{% endif %}{% endfor %}": "Unexpected tag 'endif' inside 'for' (expected '{% endfor %}')",
		"{% if x %}{% endif y %}":         "Unexpected arguments in '{% endif y %}'",
		"{% if fail %}{% endif %}":        "Tag 'if': bad arguments",
		"{% if a b %}{% endif %}":         "Unexpected 'b'",
	}
	for src, msg := range cases {
		_, err := newParser(t, nil).Parse(src, "tpl")
		var compileErr *errs.CompileError
		require.True(t, errors.As(err, &compileErr), src)
		assert.Equal(t, errs.Syntax, compileErr.Kind, src)
		assert.Equal(t, msg, compileErr.Msg, src)
	}
}

func TestMaxNesting(t *testing.T) {
	p := newParser(t, nil)

	_, err := p.Parse("{% if a %}{% if b %}{% if c %}{% endif %}{% endif %}{% endif %}", "tpl")
	require.NoError(t, err)

	_, err = p.Parse("{% if a %}{% if b %}{% if c %}{% if d %}{% endif %}{% endif %}{% endif %}{% endif %}", "tpl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Maximum nesting depth (3) exceeded")
}

func TestParserFreezesRegistry(t *testing.T) {
	reg := registry.New()
	parser.NewParser(reg, 0)
	assert.ErrorIs(t, reg.RegisterTag(testTag{registry.TagReflection{Name: "x"}, nil}), errs.ErrFrozen)
}

func TestLexErrorsCarrySource(t *testing.T) {
	_, err := newParser(t, nil).Parse("ok\n{{ broken", "tpl")
	require.Error(t, err)
	assert.Equal(t, "Unterminated output: missing '}}' for '{{'\n    tpl:2:1 | {{ broken", err.Error())
}
