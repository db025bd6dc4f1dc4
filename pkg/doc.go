// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package pkg is the collection of packages that make up the implementation of liquid.

Packages are layered: each one depends only on the layers beneath it.

In the inventory, below, individual packages are named alongside their coupling
with the other packages in the codebase.

	(# of dependents) => <package name> => (# of dependencies)

# Entry Point

liquid is built into a command-line tool:

	./cmd/liquid

	(1) => pkg/cmd => (4)
	(1) => pkg/cmd/render => (7)
	(2) => pkg/cmd/core => (1)
	(1) => pkg/experiments => (0)

# Library Facade

Embedders compile and render templates through pkg/liquid; the built-in tags
and filters live in pkg/stdlib.

	(1) => pkg/liquid => (6)
	(2) => pkg/stdlib => (8)

# Compilation

Source text is split into tokens, parsed into a syntax tree (consulting the
registry of tags for block structure and argument parsing) and compiled into
a tree of renderable nodes.

	(1) => pkg/lexer => (2)
	(4) => pkg/ast => (3)
	(1) => pkg/parser => (4)
	(1) => pkg/compiler => (6)
	(4) => pkg/registry => (4)

# Rendering

Compiled nodes render against a per-render context holding scopes, registers
and resource limits.

	(6) => pkg/runtime => (3)
	(7) => pkg/value => (2)

# Utilities

	(9) => pkg/errs => (2)
	(6) => pkg/filepos => (0)
	(3) => pkg/orderedmap => (0)
	(2) => pkg/version => (0)
	(1) => pkg/spell => (0)
*/
package pkg
