// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package errs defines the error taxonomy shared by every stage of the template
pipeline.

Failures are strictly separated into two classes:

  - CompileError: structural problems detectable without runtime data (bad
    syntax, unknown tag or filter names, bad filter argument shapes). They
    abort compilation.
  - RenderError: problems that depend on the data supplied to a render call
    (undefined variables in strict mode, filters rejecting their input,
    exhausted resource limits). They abort the render.

Both carry a filepos.Position so callers can build diagnostics without
re-parsing the source.
*/
package errs
