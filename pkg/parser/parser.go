// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"errors"
	"fmt"
	"strings"

	"carvel.dev/liquid/pkg/ast"
	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/lexer"
	"carvel.dev/liquid/pkg/registry"
)

const DefaultMaxNesting = 100

type Parser struct {
	reg        *registry.Registry
	lexer      *lexer.Lexer
	maxNesting int
}

// NewParser freezes reg; tags and filters must be registered beforehand.
func NewParser(reg *registry.Registry, maxNesting int) *Parser {
	reg.Freeze()
	if maxNesting <= 0 {
		maxNesting = DefaultMaxNesting
	}
	return &Parser{reg: reg, lexer: lexer.NewLexer(reg.RawTags()...), maxNesting: maxNesting}
}

func (p *Parser) Parse(src, associatedName string) (*ast.Root, error) {
	tokens, err := p.lexer.Lex(src, associatedName)
	if err != nil {
		return nil, err
	}

	s := &state{parser: p, tokens: tokens}

	nodes, _, err := s.parseBody(nil)
	if err != nil {
		var compileErr *errs.CompileError
		if errors.As(err, &compileErr) {
			return nil, compileErr.WithSource(src)
		}
		return nil, err
	}

	return &ast.Root{Name: associatedName, Source: src, Nodes: nodes}, nil
}

type openBlock struct {
	block *ast.Block
	refl  registry.TagReflection
}

type state struct {
	parser *Parser
	tokens []lexer.Token
	idx    int
	open   []*openBlock
}

// parseBody consumes nodes until a tag terminating owner (its end tag or
// one of its markers) and returns that tag.
func (s *state) parseBody(owner *openBlock) ([]ast.Node, *lexer.Token, error) {
	var nodes []ast.Node

	for s.idx < len(s.tokens) {
		tok := s.tokens[s.idx]
		s.idx++

		switch tok.Kind {
		case lexer.Literal:
			nodes = append(nodes, &ast.Text{Pos: tok.Pos, Content: tok.Text})

		case lexer.Output:
			expr, err := ast.ParseOutput(tok.Text, tok.ContentPos)
			if err != nil {
				return nil, nil, err
			}
			nodes = append(nodes, &ast.Output{Pos: tok.Pos, Expr: expr, Markup: tok.Source})

		case lexer.Tag:
			if owner != nil && (tok.Name == owner.refl.EndTag || owner.refl.HasMarker(tok.Name)) {
				return nodes, &tok, nil
			}

			tag, found := s.parser.reg.Tag(tok.Name)
			if !found {
				return nil, nil, s.unknownTag(tok, owner)
			}

			node, err := s.parseTag(tok, tag)
			if err != nil {
				return nil, nil, err
			}
			nodes = append(nodes, node)

		default:
			panic(fmt.Sprintf("Unknown token kind %s", tok.Kind))
		}
	}

	if owner != nil {
		return nil, nil, errs.NewSyntaxError(owner.block.Pos,
			"Tag '%s' was never closed (expected '{%% %s %%}')", owner.block.Name, owner.refl.EndTag)
	}
	return nodes, nil, nil
}

func (s *state) unknownTag(tok lexer.Token, owner *openBlock) error {
	if s.parser.reg.Closes(tok.Name) {
		if owner != nil {
			return errs.NewSyntaxError(tok.Pos, "Unexpected tag '%s' inside '%s' (expected '{%% %s %%}')",
				tok.Name, owner.block.Name, owner.refl.EndTag)
		}
		return errs.NewSyntaxError(tok.Pos, "Unexpected tag '%s' outside of a block", tok.Name)
	}
	return errs.NewUnknownTagError(tok.Name, tok.Pos, s.parser.reg.TagNames())
}

func (s *state) parseTag(tok lexer.Token, tag registry.TagParser) (ast.Node, error) {
	refl := tag.Reflection()

	parsedArgs, err := s.parseArguments(tag, tok)
	if err != nil {
		return nil, err
	}

	block := &ast.Block{Pos: tok.Pos, Name: tok.Name, Markup: tok.Source, Args: parsedArgs}
	if !refl.IsBlock() {
		return block, nil
	}

	if len(s.open) >= s.parser.maxNesting {
		return nil, errs.NewSyntaxError(tok.Pos, "Maximum nesting depth (%d) exceeded", s.parser.maxNesting)
	}

	owner := &openBlock{block: block, refl: refl}
	s.open = append(s.open, owner)
	defer func() { s.open = s.open[:len(s.open)-1] }()

	body, term, err := s.parseBody(owner)
	if err != nil {
		return nil, err
	}
	block.Body = body

	for term.Name != refl.EndTag {
		markerArgs, err := s.parseArguments(tag, *term)
		if err != nil {
			return nil, err
		}
		branch := &ast.Branch{Pos: term.Pos, Marker: term.Name, Markup: term.Source, Args: markerArgs}

		branch.Body, term, err = s.parseBody(owner)
		if err != nil {
			return nil, err
		}
		block.Branches = append(block.Branches, branch)
	}

	if len(strings.TrimSpace(term.Args)) > 0 {
		return nil, errs.NewSyntaxError(term.Pos, "Unexpected arguments in '%s'", term.Source)
	}
	block.EndPos = term.Pos
	return block, nil
}

func (s *state) parseArguments(tag registry.TagParser, tok lexer.Token) (interface{}, error) {
	parsed, err := tag.ParseArguments(tok.Name, ast.NewArgs(tok.Args, tok.ContentPos))
	if err != nil {
		var compileErr *errs.CompileError
		if errors.As(err, &compileErr) {
			return nil, compileErr
		}
		return nil, errs.NewSyntaxError(tok.Pos, "Tag '%s': %s", tok.Name, err)
	}
	return parsed, nil
}
