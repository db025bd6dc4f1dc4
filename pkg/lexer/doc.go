// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package lexer splits template source into an ordered sequence of Tokens:
literal text, output expressions (`{{ ... }}`) and tags (`{% ... %}`).

Tokens cover the whole input without gaps or overlaps. Whitespace control
markers (`{{-`, `-}}`, `{%-`, `-%}`) are applied here: they strip adjacent
whitespace (including newlines) from the neighboring literal tokens before the
parser ever sees them.
*/
package lexer
