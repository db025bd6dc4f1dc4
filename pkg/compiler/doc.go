// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package compiler turns a parsed template into runtime Renderables.

Filters are bound by name once, here, and their call sites are checked
against each filter's declared signature. Tags compile their own blocks
through the CompileContext the compiler hands them.
*/
package compiler
