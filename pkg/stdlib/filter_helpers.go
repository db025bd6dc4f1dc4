// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package stdlib

import (
	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/value"
)

func required(names ...string) []registry.FilterParam {
	var result []registry.FilterParam
	for _, name := range names {
		result = append(result, registry.FilterParam{Name: name, Required: true})
	}
	return result
}

func optional(names ...string) []registry.FilterParam {
	var result []registry.FilterParam
	for _, name := range names {
		result = append(result, registry.FilterParam{Name: name})
	}
	return result
}

func noParams() registry.FilterSignature { return registry.FilterSignature{} }

func params(list ...[]registry.FilterParam) registry.FilterSignature {
	var sig registry.FilterSignature
	for _, group := range list {
		sig.Params = append(sig.Params, group...)
	}
	return sig
}

// stringFilter lifts a string transformation into a filter over any input.
func stringFilter(name, description string, fn func(string) string) registry.Filter {
	return registry.NewFilter(name, noParams(), description,
		func(input value.Value, _ runtime.FilterArgs) (value.Value, error) {
			return value.NewString(fn(input.Render())), nil
		})
}

// arrayOf returns the elements of an Array input; Nil is empty and any
// other value is a single element.
func arrayOf(input value.Value) []value.Value {
	switch input.Kind() {
	case value.KindNil:
		return nil
	case value.KindArray:
		items, _ := input.AsArray()
		return items
	default:
		return []value.Value{input}
	}
}

func strictArray(input value.Value, operation string) ([]value.Value, error) {
	switch input.Kind() {
	case value.KindNil:
		return nil, nil
	case value.KindArray:
		items, _ := input.AsArray()
		return items, nil
	default:
		return nil, errs.NewTypeError(operation, input.Kind().String())
	}
}

func stringArg(args runtime.FilterArgs, i int, defaultVal string) string {
	if !args.Has(i) || args.At(i).IsNil() {
		return defaultVal
	}
	return args.At(i).Render()
}
