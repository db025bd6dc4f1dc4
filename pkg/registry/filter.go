// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"fmt"
	"strings"

	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/value"
)

type FilterParam struct {
	Name     string
	Required bool
}

// FilterSignature is the argument shape accepted by a filter. The
// compiler checks every call site against it.
type FilterSignature struct {
	Params   []FilterParam
	Keywords []string
	// Variadic filters accept any number of extra positional arguments.
	Variadic bool
}

func (s FilterSignature) MinArgs() int {
	count := 0
	for _, param := range s.Params {
		if param.Required {
			count++
		}
	}
	return count
}

// MaxArgs is -1 for variadic signatures.
func (s FilterSignature) MaxArgs() int {
	if s.Variadic {
		return -1
	}
	return len(s.Params)
}

func (s FilterSignature) AcceptsKeyword(name string) bool {
	for _, kw := range s.Keywords {
		if kw == name {
			return true
		}
	}
	return false
}

func (s FilterSignature) String() string {
	var parts []string
	for _, param := range s.Params {
		if param.Required {
			parts = append(parts, param.Name)
		} else {
			parts = append(parts, "["+param.Name+"]")
		}
	}
	if s.Variadic {
		parts = append(parts, "...")
	}
	for _, kw := range s.Keywords {
		parts = append(parts, kw+": value")
	}
	return strings.Join(parts, ", ")
}

type FilterReflection struct {
	Name        string
	Signature   FilterSignature
	Description string
}

type Filter interface {
	runtime.Filter
	Reflection() FilterReflection
}

// FilterFunc is the function form of a filter.
type FilterFunc func(input value.Value, args runtime.FilterArgs) (value.Value, error)

type funcFilter struct {
	reflection FilterReflection
	fn         FilterFunc
}

var _ Filter = funcFilter{}

// NewFilter adapts fn into a Filter. Panics raised by fn are returned as
// errors.
func NewFilter(name string, sig FilterSignature, description string, fn FilterFunc) Filter {
	return funcFilter{FilterReflection{Name: name, Signature: sig, Description: description}, fn}
}

func (f funcFilter) Reflection() FilterReflection { return f.reflection }

func (f funcFilter) Apply(input value.Value, args runtime.FilterArgs) (result value.Value, resultErr error) {
	defer func() {
		if rec := recover(); rec != nil {
			if typedErr, ok := rec.(error); ok {
				resultErr = fmt.Errorf("panic: %w", typedErr)
			} else {
				resultErr = fmt.Errorf("panic: %v", rec)
			}
			result = value.Nil
		}
	}()

	return f.fn(input, args)
}
