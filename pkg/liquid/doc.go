// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package liquid is the entry point for compiling and rendering templates.

	reg := stdlib.NewRegistry()
	tpl, err := liquid.Compile("Hello {{ name }}!", reg)
	...
	out, err := tpl.Render(data, liquid.RenderOptions{StrictVariables: true})

A Template is immutable once compiled and may be rendered concurrently;
every render gets its own runtime context. Failures are reported as
*errs.CompileError from compilation and *errs.RenderError from rendering.
*/
package liquid
