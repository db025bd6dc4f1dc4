// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package stdlib provides the standard tags and filters.

Tags: assign, capture, if/elsif/else, unless, case/when/else, for/else,
break, continue, comment, raw, #, ifchanged, cycle, increment, decrement,
require_version.

Filters cover strings, math, arrays, defaults, dates and serialization
(json, toml).
*/
package stdlib
