// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package stdlib

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/orderedmap"
	"carvel.dev/liquid/pkg/registry"
	"carvel.dev/liquid/pkg/runtime"
	"carvel.dev/liquid/pkg/value"
	"github.com/BurntSushi/toml"
	"github.com/ncruces/go-strftime"
)

// Now is the clock used by the date filter for "now" and "today".
var Now = time.Now

func miscFilters() []registry.Filter {
	return []registry.Filter{
		registry.NewFilter("default", registry.FilterSignature{
			Params:   required("fallback"),
			Keywords: []string{"allow_false"},
		}, "Replaces Nil, false and empty values", defaultFilter),

		registry.NewFilter("date", params(required("format")), "Formats a date with strftime directives", dateFilter),

		registry.NewFilter("json", registry.FilterSignature{Keywords: []string{"indent"}}, "Encodes as JSON", jsonFilter),

		registry.NewFilter("toml", registry.FilterSignature{Keywords: []string{"indent"}}, "Encodes an Object as TOML", tomlFilter),
	}
}

func defaultFilter(input value.Value, args runtime.FilterArgs) (value.Value, error) {
	allowFalse := false
	if kw, found := args.Keyword("allow_false"); found {
		allowFalse = kw.Truthy()
	}

	switch input.Kind() {
	case value.KindNil:
		return args.At(0), nil
	case value.KindBool:
		if !input.Truthy() && !allowFalse {
			return args.At(0), nil
		}
	case value.KindString, value.KindArray, value.KindObject:
		if input.Len() == 0 {
			return args.At(0), nil
		}
	}
	return input, nil
}

var dateLayouts = []string{
	time.RFC3339,
	value.DateTimeFormat,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

func dateFilter(input value.Value, args runtime.FilterArgs) (value.Value, error) {
	if input.IsNil() {
		return value.Nil, nil
	}

	t, err := toTime(input)
	if err != nil {
		return value.Nil, err
	}

	format := args.At(0).Render()
	if len(format) == 0 {
		return input, nil
	}
	return value.NewString(strftime.Format(format, t)), nil
}

func toTime(input value.Value) (time.Time, error) {
	switch input.Kind() {
	case value.KindDateTime:
		t, _ := input.AsDateTime()
		return t, nil

	case value.KindInteger, value.KindFloat:
		secs, _ := value.ToInt(input, "date")
		return time.Unix(secs, 0).UTC(), nil

	case value.KindString:
		s, _ := input.AsString()
		s = strings.TrimSpace(s)
		switch strings.ToLower(s) {
		case "now", "today":
			return Now(), nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("Expected date, but could not parse '%s'", s)

	default:
		return time.Time{}, errs.NewTypeError("date", input.Kind().String())
	}
}

func indentArg(args runtime.FilterArgs) (int, error) {
	kw, found := args.Keyword("indent")
	if !found {
		return 0, nil
	}
	indent, err := value.ToInt(kw, "indent")
	if err != nil {
		return 0, err
	}
	if indent < 0 || indent > 8 {
		return 0, fmt.Errorf("indent value must be between 0 and 8")
	}
	return int(indent), nil
}

func jsonFilter(input value.Value, args runtime.FilterArgs) (value.Value, error) {
	indent, err := indentArg(args)
	if err != nil {
		return value.Nil, err
	}

	encoded, err := input.MarshalJSON()
	if err != nil {
		return value.Nil, err
	}

	if indent > 0 {
		var buf bytes.Buffer
		if err := json.Indent(&buf, encoded, "", strings.Repeat(" ", indent)); err != nil {
			return value.Nil, err
		}
		encoded = buf.Bytes()
	}
	return value.NewString(string(encoded)), nil
}

func tomlFilter(input value.Value, args runtime.FilterArgs) (value.Value, error) {
	if input.Kind() != value.KindObject {
		return value.Nil, errs.NewTypeError("toml", input.Kind().String())
	}

	indent, err := indentArg(args)
	if err != nil {
		return value.Nil, err
	}

	val := orderedmap.Conversion{Object: input.AsGoValue()}.AsUnorderedStringMaps()

	var buffer bytes.Buffer
	encoder := toml.NewEncoder(&buffer)
	if indent > 0 {
		encoder.Indent = strings.Repeat(" ", indent)
	}

	if err := encoder.Encode(val); err != nil {
		return value.Nil, err
	}
	return value.NewString(buffer.String()), nil
}
