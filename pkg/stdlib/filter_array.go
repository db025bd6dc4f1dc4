// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package stdlib

import (
	"sort"
	"strings"
	"unicode/utf8"

	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/value"
)

func arrayFilters() []registry.Filter {
	return []registry.Filter{
		registry.NewFilter("join", params(optional("separator")), "Joins elements with a separator",
			func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
				items := arrayOf(input)
				parts := make([]string, len(items))
				for i, item := range items {
					parts[i] = item.Render()
				}
				return value.NewString(strings.Join(parts, stringArg(args, 0, " "))), nil
			}),

		registry.NewFilter("first", noParams(), "First element or character",
			func(input value.Value, _ runtime.FilterArgs) (value.Value, error) {
				if s, ok := input.AsString(); ok {
					r, size := utf8.DecodeRuneInString(s)
					if size == 0 {
						return value.Nil, nil
					}
					return value.NewString(string(r)), nil
				}
				first, _ := input.Index(0)
				return first, nil
			}),

		registry.NewFilter("last", noParams(), "Last element or character",
			func(input value.Value, _ runtime.FilterArgs) (value.Value, error) {
				if s, ok := input.AsString(); ok {
					r, size := utf8.DecodeLastRuneInString(s)
					if size == 0 {
						return value.Nil, nil
					}
					return value.NewString(string(r)), nil
				}
				last, _ := input.Index(-1)
				return last, nil
			}),

		registry.NewFilter("reverse", noParams(), "Reverses element order",
			func(input value.Value, _ runtime.FilterArgs) (value.Value, error) {
				items, err := strictArray(input, "reverse")
				if err != nil {
					return value.Nil, err
				}
				result := make([]value.Value, len(items))
				for i, item := range items {
					result[len(items)-1-i] = item
				}
				return value.NewArray(result), nil
			}),

		registry.NewFilter("sort", params(optional("property")), "Sorts elements, optionally by a property",
			func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
				items, err := strictArray(input, "sort")
				if err != nil {
					return value.Nil, err
				}
				return sortValues(items, args)
			}),

		registry.NewFilter("uniq", noParams(), "Removes duplicate elements",
			func(input value.Value, _ runtime.FilterArgs) (value.Value, error) {
				items, err := strictArray(input, "uniq")
				if err != nil {
					return value.Nil, err
				}
				var result []value.Value
				for _, item := range items {
					if !value.Contains(value.NewArray(result), item) {
						result = append(result, item)
					}
				}
				return value.NewArray(result), nil
			}),

		registry.NewFilter("map", params(required("property")), "Extracts a property from every element",
			func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
				items, err := strictArray(input, "map")
				if err != nil {
					return value.Nil, err
				}
				property := args.At(0).Render()
				result := make([]value.Value, len(items))
				for i, item := range items {
					result[i], _ = item.Field(property)
				}
				return value.NewArray(result), nil
			}),

		registry.NewFilter("compact", params(optional("property")), "Removes Nil elements",
			func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
				items, err := strictArray(input, "compact")
				if err != nil {
					return value.Nil, err
				}
				var result []value.Value
				for _, item := range items {
					check := item
					if args.Has(0) {
						check, _ = item.Field(args.At(0).Render())
					}
					if !check.IsNil() {
						result = append(result, item)
					}
				}
				return value.NewArray(result), nil
			}),

		registry.NewFilter("concat", params(required("array")), "Appends the elements of another Array",
			func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
				items, err := strictArray(input, "concat")
				if err != nil {
					return value.Nil, err
				}
				other, err := strictArray(args.At(0), "concat")
				if err != nil {
					return value.Nil, err
				}
				return value.NewArray(items).Append(other...), nil
			}),
	}
}

func sortValues(items []value.Value, args runtime.FilterArgs) (value.Value, error) {
	keyOf := func(item value.Value) value.Value { return item }
	if args.Has(0) {
		property := args.At(0).Render()
		keyOf = func(item value.Value) value.Value {
			key, _ := item.Field(property)
			return key
		}
	}

	result := append([]value.Value(nil), items...)

	var sortErr error
	sort.SliceStable(result, func(i, j int) bool {
		a, b := keyOf(result[i]), keyOf(result[j])
		// Nil sorts last.
		if a.IsNil() || b.IsNil() {
			return !a.IsNil() && b.IsNil()
		}
		cmp, ok := value.Compare(a, b)
		if !ok && sortErr == nil {
			sortErr = errs.NewTypeError("sort", a.Kind().String()+" and "+b.Kind().String())
		}
		return cmp < 0
	})

	if sortErr != nil {
		return value.Nil, sortErr
	}
	return value.NewArray(result), nil
}
