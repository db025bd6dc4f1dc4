// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"carvel.dev/liquid/pkg/value"
)

// FilterArgs are the evaluated arguments of one filter application.
type FilterArgs struct {
	Positional []value.Value
	Keywords   map[string]value.Value
}

// At returns the i-th positional argument, or Nil when absent.
func (a FilterArgs) At(i int) value.Value {
	if i < len(a.Positional) {
		return a.Positional[i]
	}
	return value.Nil
}

func (a FilterArgs) Has(i int) bool { return i < len(a.Positional) }

func (a FilterArgs) Keyword(name string) (value.Value, bool) {
	val, found := a.Keywords[name]
	return val, found
}

// Filter transforms a value. Failures must be returned, not panicked.
type Filter interface {
	Apply(input value.Value, args FilterArgs) (value.Value, error)
}

// FilterSource resolves filters by name at render time.
type FilterSource interface {
	RuntimeFilter(name string) (Filter, bool)
}
