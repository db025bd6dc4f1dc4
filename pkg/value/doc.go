// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package value provides the runtime value model of templates.

A Value is a closed tagged union (Nil, Bool, Integer, Float, String,
DateTime, Array, Object). Values are immutable once constructed; copying a
Value is cheap because Array and Object contents are shared between copies.
Operations producing a modified Array or Object (e.g. Object.With) copy the
shared contents first, so no holder ever observes another holder's change.

Equality, ordering, truthiness and output rendering are defined once here
and used consistently by the rest of the pipeline:

  - Nil and Bool(false) are falsy; everything else (including 0, "" and
    empty collections) is truthy.
  - Integer and Float compare by numeric value. Strings compare
    lexicographically (byte-wise). Arrays compare structurally element by
    element; Objects are equal when they hold equal values under the same
    keys. Values of different kinds are never equal and never ordered; no
    implicit string/number coercion happens in comparisons.
  - Arithmetic (see Add, Sub, ...) coerces numeric Strings and Nil (as 0)
    into numbers and fails with a TypeError for anything else.
*/
package value
