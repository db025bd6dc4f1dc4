// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package lexer

import (
	"fmt"

	"carvel.dev/liquid/pkg/filepos"
)

type Kind int

const (
	Literal Kind = iota
	Output
	Tag
)

func (k Kind) String() string {
	switch k {
	case Literal:
		return "Literal"
	case Output:
		return "Output"
	case Tag:
		return "Tag"
	default:
		panic(fmt.Sprintf("unknown token kind %d", int(k)))
	}
}

type Token struct {
	Kind Kind
	// Pos points at the first byte of the token (the opening delimiter for
	// Output and Tag tokens).
	Pos filepos.Position

	// Text is the literal text of a Literal token or the raw expression of an
	// Output token.
	Text string
	// Name and Args are the tag name and its raw argument text.
	Name string
	Args string
	// ContentPos points at the first byte of Text (Output) or Args (Tag).
	ContentPos filepos.Position

	TrimLeft  bool
	TrimRight bool

	// Source is the full token text as it appeared in the template.
	Source string
}

// Markup is the token as written by the template author.
func (t Token) Markup() string { return t.Source }
