// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package liquid

import (
	"time"

	"carvel.dev/liquid/pkg/compiler"
	"carvel.dev/liquid/pkg/parser"
	"carvel.dev/liquid/pkg/registry"
	"go.uber.org/zap"
)

const DefaultTemplateName = "template"

// Parser compiles templates against a fixed set of tags and filters.
type Parser struct {
	reg        *registry.Registry
	logger     *zap.Logger
	name       string
	maxNesting int
	lateBound  bool

	parser   *parser.Parser
	compiler *compiler.Compiler
}

type ParserOpt func(*Parser)

func WithLogger(logger *zap.Logger) ParserOpt {
	return func(p *Parser) { p.logger = logger }
}

// WithMaxNesting bounds how deeply blocks may be nested.
func WithMaxNesting(n int) ParserOpt {
	return func(p *Parser) { p.maxNesting = n }
}

// WithLateBoundFilters compiles unknown filters into nodes resolved from
// RenderOptions.Filters when rendering.
func WithLateBoundFilters() ParserOpt {
	return func(p *Parser) { p.lateBound = true }
}

// WithName sets the name reported in positions of compiled templates.
func WithName(name string) ParserOpt {
	return func(p *Parser) { p.name = name }
}

// NewParser freezes reg: no tags or filters can be added afterwards.
func NewParser(reg *registry.Registry, opts ...ParserOpt) *Parser {
	p := &Parser{reg: reg, logger: zap.NewNop(), name: DefaultTemplateName}
	for _, opt := range opts {
		opt(p)
	}

	p.parser = parser.NewParser(reg, p.maxNesting)
	p.compiler = compiler.NewCompiler(reg, compiler.Options{LateBoundFilters: p.lateBound})
	return p
}

// Parse compiles source under the parser's template name.
func (p *Parser) Parse(source string) (*Template, error) {
	return p.ParseNamed(source, p.name)
}

func (p *Parser) ParseNamed(source, name string) (*Template, error) {
	start := time.Now()

	root, err := p.parser.Parse(source, name)
	if err != nil {
		p.logger.Debug("template compilation failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	compiled, err := p.compiler.Compile(root)
	if err != nil {
		p.logger.Debug("template compilation failed", zap.String("name", name), zap.Error(err))
		return nil, err
	}

	p.logger.Debug("template compiled",
		zap.String("name", name),
		zap.Int("nodes", len(root.Nodes)),
		zap.Duration("duration", time.Since(start)))

	return &Template{name: name, source: source, root: compiled, reg: p.reg, logger: p.logger}, nil
}

// Compile compiles source with a default Parser over reg.
func Compile(source string, reg *registry.Registry) (*Template, error) {
	return NewParser(reg).Parse(source)
}
