// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"math"
	"strconv"
	"strings"
)

// DateTimeFormat is the layout used when a DateTime is rendered.
const DateTimeFormat = "2006-01-02 15:04:05 -0700"

// Render returns the exact text emitted when v appears in template output.
func (v Value) Render() string {
	switch v.kind {
	case KindNil:
		return ""
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return FormatFloat(v.f)
	case KindString:
		return v.s
	case KindDateTime:
		return v.t.Format(DateTimeFormat)
	case KindArray:
		var sb strings.Builder
		for _, item := range v.items {
			sb.WriteString(item.Render())
		}
		return sb.String()
	case KindObject:
		return v.Source()
	default:
		return ""
	}
}

func (v Value) String() string { return v.Render() }

// Source returns a literal-like representation used in diagnostics.
func (v Value) Source() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindString:
		return strconv.Quote(v.s)
	case KindDateTime:
		return strconv.Quote(v.Render())
	case KindArray:
		parts := make([]string, len(v.items))
		for i, item := range v.items {
			parts[i] = item.Source()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		var parts []string
		v.obj.Iterate(func(key string, val Value) {
			parts = append(parts, strconv.Quote(key)+": "+val.Source())
		})
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return v.Render()
	}
}

// FormatFloat renders f as the shortest decimal that round-trips. Integral
// values keep a ".0" suffix so that a Float never renders like an Integer.
// Very large or very small magnitudes use exponent notation.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e16 || abs < 1e-5) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}

	result := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(result, ".") {
		result += ".0"
	}
	return result
}
