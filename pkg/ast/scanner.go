// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ast

import (
	"fmt"
)

type ArgTokenKind int

const (
	EndOfArgs ArgTokenKind = iota
	Ident
	String
	Integer
	Float
	Symbol
)

func (k ArgTokenKind) String() string {
	switch k {
	case EndOfArgs:
		return "end of arguments"
	case Ident:
		return "identifier"
	case String:
		return "string"
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Symbol:
		return "symbol"
	default:
		panic(fmt.Sprintf("unknown argument token kind %d", int(k)))
	}
}

type ArgToken struct {
	Kind ArgTokenKind
	// Text is the token text; for strings, without quotes.
	Text   string
	Offset int
}

func (t ArgToken) Describe() string {
	switch t.Kind {
	case EndOfArgs:
		return "end of arguments"
	case String:
		return fmt.Sprintf("string %q", t.Text)
	default:
		return fmt.Sprintf("'%s'", t.Text)
	}
}

var twoCharSymbols = []string{"..", "==", "!=", "<>", "<=", ">="}

const oneCharSymbols = ".|:,[]()<>="

type scanError struct {
	offset int
	msg    string
}

func scanArgs(text string) ([]ArgToken, *scanError) {
	var tokens []ArgToken

	i := 0
	for i < len(text) {
		ch := text[i]

		switch {
		case isSpace(ch):
			i++

		case ch == '"' || ch == '\'':
			end := i + 1
			for end < len(text) && text[end] != ch {
				end++
			}
			if end >= len(text) {
				return nil, &scanError{i, fmt.Sprintf("Unterminated string starting with %c", ch)}
			}
			tokens = append(tokens, ArgToken{Kind: String, Text: text[i+1 : end], Offset: i})
			i = end + 1

		case isDigit(ch) || (ch == '-' && i+1 < len(text) && isDigit(text[i+1])):
			end := i + 1
			for end < len(text) && isDigit(text[end]) {
				end++
			}
			kind := Integer
			if end+1 < len(text) && text[end] == '.' && isDigit(text[end+1]) {
				kind = Float
				end++
				for end < len(text) && isDigit(text[end]) {
					end++
				}
			}
			if end < len(text) && isIdentStart(text[end]) {
				return nil, &scanError{i, fmt.Sprintf("Invalid number '%s'", text[i:end+1])}
			}
			tokens = append(tokens, ArgToken{Kind: kind, Text: text[i:end], Offset: i})
			i = end

		case isIdentStart(ch):
			end := i + 1
			for end < len(text) && isIdentChar(text[end]) {
				end++
			}
			if end < len(text) && text[end] == '?' {
				end++
			}
			tokens = append(tokens, ArgToken{Kind: Ident, Text: text[i:end], Offset: i})
			i = end

		default:
			sym := ""
			for _, candidate := range twoCharSymbols {
				if i+2 <= len(text) && text[i:i+2] == candidate {
					sym = candidate
					break
				}
			}
			if len(sym) == 0 {
				for j := 0; j < len(oneCharSymbols); j++ {
					if oneCharSymbols[j] == ch {
						sym = string(ch)
						break
					}
				}
			}
			if len(sym) == 0 {
				return nil, &scanError{i, fmt.Sprintf("Unexpected character '%c'", ch)}
			}
			tokens = append(tokens, ArgToken{Kind: Symbol, Text: sym, Offset: i})
			i += len(sym)
		}
	}

	return append(tokens, ArgToken{Kind: EndOfArgs, Offset: len(text)}), nil
}

func isSpace(ch byte) bool { return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' }

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentChar(ch byte) bool { return isIdentStart(ch) || isDigit(ch) || ch == '-' }
