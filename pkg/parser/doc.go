// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

// Package parser builds the document AST from lexer tokens. Tag names are
// resolved through a registry; the parser itself knows no tags.
package parser
