// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"strings"

	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/filepos"
)

// Args is a token stream over argument text. Scanning happens on first use
// so that tags ignoring their arguments never fail on them.
type Args struct {
	text string
	pos  filepos.Position

	scanned bool
	tokens  []ArgToken
	idx     int
	err     *errs.CompileError
}

func NewArgs(text string, pos filepos.Position) *Args {
	return &Args{text: text, pos: pos}
}

// Text is the raw argument text.
func (a *Args) Text() string { return a.text }

func (a *Args) scan() {
	if a.scanned {
		return
	}
	a.scanned = true

	tokens, scanErr := scanArgs(a.text)
	if scanErr != nil {
		a.err = errs.NewSyntaxError(a.positionAt(scanErr.offset), "%s", scanErr.msg)
		return
	}
	a.tokens = tokens
}

func (a *Args) Peek() ArgToken {
	a.scan()
	if a.err != nil {
		return ArgToken{Kind: EndOfArgs, Offset: len(a.text)}
	}
	return a.tokens[a.idx]
}

// PeekAt looks n tokens ahead of the current one.
func (a *Args) PeekAt(n int) ArgToken {
	a.scan()
	if a.err != nil || a.idx+n >= len(a.tokens) {
		return ArgToken{Kind: EndOfArgs, Offset: len(a.text)}
	}
	return a.tokens[a.idx+n]
}

func (a *Args) Next() (ArgToken, error) {
	a.scan()
	if a.err != nil {
		return ArgToken{}, a.err
	}
	tok := a.tokens[a.idx]
	if tok.Kind != EndOfArgs {
		a.idx++
	}
	return tok, nil
}

func (a *Args) IsEnd() bool { return a.Peek().Kind == EndOfArgs }

// Position of the current token.
func (a *Args) Position() filepos.Position {
	return a.positionAt(a.Peek().Offset)
}

// Remaining is the unconsumed raw argument text.
func (a *Args) Remaining() string {
	return strings.TrimSpace(a.text[a.Peek().Offset:])
}

func (a *Args) Errorf(format string, args ...interface{}) *errs.CompileError {
	if a.err != nil {
		return a.err
	}
	return errs.NewSyntaxError(a.Position(), format, args...)
}

func (a *Args) ExpectIdentifier() (string, error) {
	tok := a.Peek()
	if tok.Kind != Ident {
		return "", a.Errorf("Expected identifier, found %s", tok.Describe())
	}
	a.idx++
	return tok.Text, nil
}

func (a *Args) ExpectSymbol(sym string) error {
	if !a.AcceptSymbol(sym) {
		return a.Errorf("Expected '%s', found %s", sym, a.Peek().Describe())
	}
	return nil
}

func (a *Args) AcceptSymbol(sym string) bool {
	tok := a.Peek()
	if tok.Kind == Symbol && tok.Text == sym {
		a.idx++
		return true
	}
	return false
}

func (a *Args) AcceptKeyword(word string) bool {
	tok := a.Peek()
	if tok.Kind == Ident && tok.Text == word {
		a.idx++
		return true
	}
	return false
}

func (a *Args) ExpectKeyword(word string) error {
	if !a.AcceptKeyword(word) {
		return a.Errorf("Expected '%s', found %s", word, a.Peek().Describe())
	}
	return nil
}

// ExpectEnd fails if any token is left.
func (a *Args) ExpectEnd() error {
	tok := a.Peek()
	if a.err != nil {
		return a.err
	}
	if tok.Kind != EndOfArgs {
		return a.Errorf("Unexpected %s", tok.Describe())
	}
	return nil
}

func (a *Args) positionAt(offset int) filepos.Position {
	return a.pos.Advance(a.text[:offset])
}

func errorf(pos filepos.Position, format string, args ...interface{}) error {
	return errs.NewSyntaxError(pos, format, args...)
}
