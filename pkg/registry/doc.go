// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package registry holds the tags and filters known to a parser.

Names are unique: the first registration wins and later attempts fail
with a DuplicateNameError unless the caller explicitly overrides. A
registry is frozen once a parser is built from it; it can then be read
concurrently but no longer modified. Clone returns an unfrozen copy.
*/
package registry
