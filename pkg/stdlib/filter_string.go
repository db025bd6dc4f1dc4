// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package stdlib

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/value"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func stringFilters() []registry.Filter {
	return []registry.Filter{
		stringFilter("upcase", "Converts to upper case", strings.ToUpper),
		stringFilter("downcase", "Converts to lower case", strings.ToLower),
		stringFilter("capitalize", "Upper-cases the first character", capitalize),
		stringFilter("strip", "Removes surrounding whitespace", strings.TrimSpace),
		stringFilter("lstrip", "Removes leading whitespace", func(s string) string {
			return strings.TrimLeftFunc(s, unicode.IsSpace)
		}),
		stringFilter("rstrip", "Removes trailing whitespace", func(s string) string {
			return strings.TrimRightFunc(s, unicode.IsSpace)
		}),
		stringFilter("escape", "Escapes HTML special characters", htmlEscaper.Replace),

		registry.NewFilter("append", params(required("suffix")), "Adds a suffix",
			func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
				return value.NewString(input.Render() + args.At(0).Render()), nil
			}),

		registry.NewFilter("prepend", params(required("prefix")), "Adds a prefix",
			func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
				return value.NewString(args.At(0).Render() + input.Render()), nil
			}),

		registry.NewFilter("replace", params(required("search"), optional("replacement")), "Replaces every occurrence",
			func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
				return value.NewString(strings.ReplaceAll(input.Render(), args.At(0).Render(), stringArg(args, 1, ""))), nil
			}),

		registry.NewFilter("remove", params(required("search")), "Removes every occurrence",
			func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
				return value.NewString(strings.ReplaceAll(input.Render(), args.At(0).Render(), "")), nil
			}),

		registry.NewFilter("split", params(required("separator")), "Splits into an Array of Strings",
			func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
				return split(input.Render(), args.At(0).Render()), nil
			}),

		registry.NewFilter("size", noParams(), "Number of characters or elements",
			func(input value.Value, _ runtime.FilterArgs) (value.Value, error) {
				if s, ok := input.AsString(); ok {
					return value.NewInt(int64(utf8.RuneCountInString(s))), nil
				}
				return value.NewInt(int64(input.Len())), nil
			}),

		registry.NewFilter("truncate", params(optional("length", "ellipsis")), "Shortens to a number of characters",
			func(input value.Value, args runtime.FilterArgs) (value.Value, error) {
				length := int64(50)
				if args.Has(0) {
					var err error
					length, err = value.ToInt(args.At(0), "truncate")
					if err != nil {
						return value.Nil, err
					}
				}
				return value.NewString(truncate(input.Render(), length, stringArg(args, 1, "..."))), nil
			}),
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// split drops trailing empty elements; an empty separator splits into
// characters.
func split(s, sep string) value.Value {
	parts := strings.Split(s, sep)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	items := make([]value.Value, len(parts))
	for i, part := range parts {
		items[i] = value.NewString(part)
	}
	return value.NewArray(items)
}

func truncate(s string, length int64, ellipsis string) string {
	runes := []rune(s)
	if int64(len(runes)) <= length {
		return s
	}

	keep := length - int64(utf8.RuneCountInString(ellipsis))
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + ellipsis
}
