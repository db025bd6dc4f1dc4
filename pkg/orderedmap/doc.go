// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package orderedmap provides a map implementation where the order of keys is
maintained (unlike the native Go map).

This flavor of map is crucial in keeping the iteration order of template
objects deterministic and stable: keys iterate in insertion order while
lookups go through a hash index.
*/
package orderedmap
