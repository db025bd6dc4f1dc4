// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package runtime executes compiled templates.

A compiled template is a tree of Renderable nodes. Rendering threads a
Context through the tree: the Context owns the scope stack, the caller's
globals, per-render registers, and the counters enforcing RenderOptions
limits (depth, operation budget, cancellation).

Loop control (break/continue) travels up the tree as a Signal returned
next to the error. The nearest enclosing loop consumes it.
*/
package runtime
