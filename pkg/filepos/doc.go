// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filepos provides the concept of Position: a source name (usually a file)
and a location (byte offset, line and column) within that source.

File positions are crucial when reporting errors to the user. It is often
even more useful to share the actual source line as well. For this reason
Position can carry a cached copy of the source line it points into.

Not all Positions point within a source (e.g. nodes built by an extension).
The zero-value of Position (can be created using NewUnknownPosition()) represents
this case.
*/
package filepos
