// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package ast defines the syntax trees produced by parsing a template: document
nodes (Text, Output, Block) and expressions (Literal, Variable, Range,
FilterChain, Comparison, Logical).

It also provides Args, the token stream over a tag's argument text (or an
output's expression text), with the expression grammar used by the parser and
by tag implementations:

	filter_chain := value ( '|' IDENT ( ':' arg ( ',' arg )* )? )*
	arg          := IDENT ':' value | value
	value        := literal | path | range
	range        := '(' value '..' value ')'
	path         := IDENT ( '.' IDENT | '[' value ']' )*
	condition    := comparison ( ( 'and' | 'or' ) condition )?
	comparison   := value ( OP value )?

Syntax trees are built once per compilation and discarded once compiled.
*/
package ast
