// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"regexp"
	"strings"
	"unicode"

	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/filepos"
)

const (
	outputOpen  = "{{"
	outputClose = "}}"
	tagOpen     = "{%"
	tagClose    = "%}"
	trimMarker  = '-'
)

var (
	tagNameRegexp = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_-]*|#)`)
)

type Lexer struct {
	rawTags map[string]*regexp.Regexp
}

// NewLexer returns a lexer treating the body of each named tag as
// literal text up to its `end<name>` tag.
func NewLexer(rawTags ...string) *Lexer {
	l := &Lexer{rawTags: map[string]*regexp.Regexp{}}
	for _, name := range rawTags {
		l.rawTags[name] = regexp.MustCompile(`\{%-?\s*end` + regexp.QuoteMeta(name) + `\s*-?%\}`)
	}
	return l
}

func (l *Lexer) Lex(src, associatedName string) ([]Token, error) {
	var tokens []Token

	offset := 0
	pos := filepos.NewPosition(associatedName)

	for offset < len(src) {
		start := nextOpening(src, offset)
		if start < 0 {
			tokens = append(tokens, Token{Kind: Literal, Pos: pos, Text: src[offset:], Source: src[offset:]})
			break
		}

		if start > offset {
			tokens = append(tokens, Token{Kind: Literal, Pos: pos, Text: src[offset:start], Source: src[offset:start]})
			pos = pos.Advance(src[offset:start])
		}

		token, end, err := l.lexMarkup(src, start, pos)
		if err != nil {
			return nil, err.WithSource(src)
		}
		tokens = append(tokens, token)
		pos = pos.Advance(src[start:end])
		offset = end

		if endRegexp, isRaw := l.rawTags[token.Name]; isRaw && token.Kind == Tag {
			loc := endRegexp.FindStringIndex(src[offset:])
			if loc == nil {
				return nil, errs.NewSyntaxError(token.Pos,
					"Tag '%s' was never closed (expected '{%% end%s %%}')", token.Name, token.Name).WithSource(src)
			}

			body := src[offset : offset+loc[0]]
			tokens = append(tokens, Token{Kind: Literal, Pos: pos, Text: body, Source: body})
			pos = pos.Advance(body)
			offset += loc[0]

			endToken, end, err := l.lexMarkup(src, offset, pos)
			if err != nil {
				return nil, err.WithSource(src)
			}
			tokens = append(tokens, endToken)
			pos = pos.Advance(src[offset:end])
			offset = end
		}
	}

	return trimWhitespace(tokens), nil
}

// lexMarkup reads the output or tag starting at src[start:].
func (l *Lexer) lexMarkup(src string, start int, pos filepos.Position) (Token, int, *errs.CompileError) {
	kind, closing := Output, outputClose
	if strings.HasPrefix(src[start:], tagOpen) {
		kind, closing = Tag, tagClose
	}

	contentStart := start + 2
	closeAt := findClosing(src, contentStart, closing, kind == Tag && isInlineComment(src[contentStart:]))
	if closeAt < 0 {
		if kind == Output {
			return Token{}, 0, errs.NewSyntaxError(pos, "Unterminated output: missing '%s' for '%s'", outputClose, outputOpen)
		}
		return Token{}, 0, errs.NewSyntaxError(pos, "Unterminated tag: missing '%s' for '%s'", tagClose, tagOpen)
	}
	end := closeAt + len(closing)

	token := Token{Kind: kind, Pos: pos, Source: src[start:end]}

	contentEnd := closeAt
	if contentStart < contentEnd && src[contentStart] == trimMarker {
		token.TrimLeft = true
		contentStart++
	}
	if contentStart < contentEnd && src[contentEnd-1] == trimMarker {
		token.TrimRight = true
		contentEnd--
	}

	content := src[contentStart:contentEnd]
	contentPos := pos.Advance(src[start:contentStart])

	if kind == Output {
		token.Text = content
		token.ContentPos = contentPos
		return token, end, nil
	}

	trimmed := strings.TrimLeftFunc(content, unicode.IsSpace)
	namePos := contentPos.Advance(content[:len(content)-len(trimmed)])

	name := tagNameRegexp.FindString(trimmed)
	if len(name) == 0 {
		if len(strings.TrimSpace(trimmed)) == 0 {
			return Token{}, 0, errs.NewSyntaxError(pos, "Expected tag name inside '%s'", token.Source)
		}
		return Token{}, 0, errs.NewSyntaxError(namePos, "Invalid tag name in '%s'", token.Source)
	}

	token.Name = name
	token.Args = trimmed[len(name):]
	token.ContentPos = namePos.Advance(name)
	return token, end, nil
}

func nextOpening(src string, offset int) int {
	for i := offset; i < len(src)-1; i++ {
		if src[i] == '{' && (src[i+1] == '{' || src[i+1] == '%') {
			return i
		}
	}
	return -1
}

// findClosing finds closing, skipping over quoted strings. Free text
// (inline comments) has no strings.
func findClosing(src string, from int, closing string, freeText bool) int {
	for i := from; i < len(src); i++ {
		ch := src[i]
		switch {
		case !freeText && (ch == '"' || ch == '\''):
			if end := stringEnd(src, i, closing); end > 0 {
				i = end
			}
		case strings.HasPrefix(src[i:], closing):
			return i
		}
	}
	return -1
}

// stringEnd returns the offset of the quote closing the string opened at
// src[start], or -1 when the string would not end inside the same markup:
// the closing quote must come before the next opening delimiter and be
// followed by a closing delimiter.
func stringEnd(src string, start int, closing string) int {
	rel := strings.IndexByte(src[start+1:], src[start])
	if rel < 0 {
		return -1
	}
	end := start + 1 + rel

	limit := nextOpening(src, start+1)
	if limit < 0 {
		limit = len(src)
	}
	if end >= limit || !strings.Contains(src[end+1:limit], closing) {
		return -1
	}
	return end
}

func isInlineComment(content string) bool {
	content = strings.TrimLeftFunc(strings.TrimPrefix(content, string(trimMarker)), unicode.IsSpace)
	return strings.HasPrefix(content, "#")
}

// trimWhitespace applies trim markers to neighboring literals and drops
// literals that end up empty.
func trimWhitespace(tokens []Token) []Token {
	for i, token := range tokens {
		if token.Kind == Literal {
			continue
		}
		if token.TrimLeft && i > 0 && tokens[i-1].Kind == Literal {
			tokens[i-1].Text = strings.TrimRightFunc(tokens[i-1].Text, unicode.IsSpace)
		}
		if token.TrimRight && i+1 < len(tokens) && tokens[i+1].Kind == Literal {
			next := &tokens[i+1]
			trimmed := strings.TrimLeftFunc(next.Text, unicode.IsSpace)
			next.Pos = next.Pos.Advance(next.Text[:len(next.Text)-len(trimmed)])
			next.Text = trimmed
		}
	}

	result := tokens[:0]
	for _, token := range tokens {
		if token.Kind == Literal && len(token.Text) == 0 {
			continue
		}
		result = append(result, token)
	}
	return result
}
