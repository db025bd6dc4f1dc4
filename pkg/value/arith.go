// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"carvel.dev/liquid/pkg/errs"
)

// ToNumber coerces v into an Integer or Float for arithmetic. Strings that
// parse as numbers and Nil (as 0) are accepted; everything else is a
// TypeError attributed to operation.
func ToNumber(v Value, operation string) (Value, error) {
	switch v.kind {
	case KindInteger, KindFloat:
		return v, nil
	case KindNil:
		return NewInt(0), nil
	case KindString:
		trimmed := strings.TrimSpace(v.s)
		if i, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return NewInt(i), nil
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return NewFloat(f), nil
		}
	}
	return Nil, errs.NewTypeError(operation, v.kind.String())
}

// ToInt coerces v into an int64, truncating Floats.
func ToInt(v Value, operation string) (int64, error) {
	num, err := ToNumber(v, operation)
	if err != nil {
		return 0, err
	}
	if num.kind == KindFloat {
		return int64(num.f), nil
	}
	return num.i, nil
}

// ToFloat coerces v into a float64.
func ToFloat(v Value, operation string) (float64, error) {
	num, err := ToNumber(v, operation)
	if err != nil {
		return 0, err
	}
	return num.asFloat64(), nil
}

func Add(a, b Value) (Value, error) {
	return arith("plus", a, b,
		func(x, y int64) (int64, bool) {
			r := x + y
			return r, (r > x) == (y > 0)
		},
		func(x, y float64) float64 { return x + y })
}

func Sub(a, b Value) (Value, error) {
	return arith("minus", a, b,
		func(x, y int64) (int64, bool) {
			r := x - y
			return r, (r < x) == (y > 0)
		},
		func(x, y float64) float64 { return x - y })
}

func Mul(a, b Value) (Value, error) {
	return arith("times", a, b,
		func(x, y int64) (int64, bool) {
			if x == 0 || y == 0 {
				return 0, true
			}
			r := x * y
			return r, r/y == x && !(x == -1 && y == math.MinInt64) && !(y == -1 && x == math.MinInt64)
		},
		func(x, y float64) float64 { return x * y })
}

// Div divides with integer division when both operands are Integers.
func Div(a, b Value) (Value, error) {
	x, y, err := numbers("divided_by", a, b)
	if err != nil {
		return Nil, err
	}
	if x.kind == KindInteger && y.kind == KindInteger {
		if y.i == 0 {
			return Nil, fmt.Errorf("divided by 0")
		}
		if x.i == math.MinInt64 && y.i == -1 {
			// overflow promotes to Float
			return NewFloat(-float64(math.MinInt64)), nil
		}
		return NewInt(floorDiv(x.i, y.i)), nil
	}
	return NewFloat(x.asFloat64() / y.asFloat64()), nil
}

func Mod(a, b Value) (Value, error) {
	x, y, err := numbers("modulo", a, b)
	if err != nil {
		return Nil, err
	}
	if x.kind == KindInteger && y.kind == KindInteger {
		if y.i == 0 {
			return Nil, fmt.Errorf("divided by 0")
		}
		if y.i == -1 {
			return NewInt(0), nil
		}
		return NewInt(x.i - y.i*floorDiv(x.i, y.i)), nil
	}
	fy := y.asFloat64()
	if fy == 0 {
		return Nil, fmt.Errorf("divided by 0")
	}
	fx := x.asFloat64()
	return NewFloat(fx - fy*math.Floor(fx/fy)), nil
}

func arith(operation string, a, b Value,
	intOp func(int64, int64) (int64, bool), floatOp func(float64, float64) float64) (Value, error) {

	x, y, err := numbers(operation, a, b)
	if err != nil {
		return Nil, err
	}
	if x.kind == KindInteger && y.kind == KindInteger {
		if result, ok := intOp(x.i, y.i); ok {
			return NewInt(result), nil
		}
		// overflow promotes to Float
	}
	return NewFloat(floatOp(x.asFloat64(), y.asFloat64())), nil
}

func numbers(operation string, a, b Value) (Value, Value, error) {
	x, err := ToNumber(a, operation)
	if err != nil {
		return Nil, Nil, err
	}
	y, err := ToNumber(b, operation)
	if err != nil {
		return Nil, Nil, err
	}
	return x, y, nil
}

func floorDiv(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}
