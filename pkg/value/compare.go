// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"strings"
)

// Equal reports structural equality. Integer and Float are compared by
// numeric value; any other pair of different kinds is unequal.
func Equal(a, b Value) bool {
	if a.isNumber() && b.isNumber() {
		if a.kind == KindInteger && b.kind == KindInteger {
			return a.i == b.i
		}
		return a.asFloat64() == b.asFloat64()
	}
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNil:
		return true
	case KindBool:
		return a.b == b.b
	case KindString:
		return a.s == b.s
	case KindDateTime:
		return a.t.Equal(b.t)
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if a.obj.Len() != b.obj.Len() {
			return false
		}
		equal := true
		a.obj.Iterate(func(key string, aVal Value) {
			if !equal {
				return
			}
			bVal, found := b.obj.Get(key)
			equal = found && Equal(aVal, bVal)
		})
		return equal
	default:
		return false
	}
}

// Compare orders a relative to b (-1, 0, 1). The second result is false
// when the pair is unordered: Nil, Bool and Object never order, and values
// of different kinds (other than Integer/Float) never order.
func Compare(a, b Value) (int, bool) {
	if a.isNumber() && b.isNumber() {
		if a.kind == KindInteger && b.kind == KindInteger {
			return compareOrdered(a.i, b.i), true
		}
		af, bf := a.asFloat64(), b.asFloat64()
		if af != af || bf != bf {
			return 0, false // NaN
		}
		return compareOrdered(af, bf), true
	}
	if a.kind != b.kind {
		return 0, false
	}

	switch a.kind {
	case KindString:
		return strings.Compare(a.s, b.s), true
	case KindDateTime:
		switch {
		case a.t.Before(b.t):
			return -1, true
		case a.t.After(b.t):
			return 1, true
		default:
			return 0, true
		}
	case KindArray:
		for i := 0; i < len(a.items) && i < len(b.items); i++ {
			if Equal(a.items[i], b.items[i]) {
				continue
			}
			return Compare(a.items[i], b.items[i])
		}
		return compareOrdered(len(a.items), len(b.items)), true
	default:
		return 0, false
	}
}

// Contains implements the `contains` operator: substring for Strings,
// element membership for Arrays and key membership for Objects.
func Contains(container, item Value) bool {
	switch container.kind {
	case KindString:
		needle, ok := item.AsString()
		if !ok {
			if item.kind == KindNil {
				return false
			}
			needle = item.Render()
		}
		return strings.Contains(container.s, needle)
	case KindArray:
		for _, elem := range container.items {
			if Equal(elem, item) {
				return true
			}
		}
		return false
	case KindObject:
		key, ok := item.AsString()
		if !ok {
			return false
		}
		_, found := container.obj.Get(key)
		return found
	default:
		return false
	}
}

func (v Value) isNumber() bool { return v.kind == KindInteger || v.kind == KindFloat }

func (v Value) asFloat64() float64 {
	if v.kind == KindInteger {
		return float64(v.i)
	}
	return v.f
}

func compareOrdered[T int | int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
